package constants

type ContextKey string

const (
	WordLength       = 5
	DefaultMaxRounds = 3
	MaxRoundsCeiling = 20
	RoomCount        = 3
	RoomCapacity     = 2
)

// Per-letter verdicts. Promotion order: UNUSED < MISS < PRESENT < HIT.
const (
	VerdictHit     = "HIT"
	VerdictPresent = "PRESENT"
	VerdictMiss    = "MISS"
	VerdictUnused  = "UNUSED"
)

const (
	ModeSolo = "SOLO"
	ModeDual = "DUAL"
)

// Winner sentinel for a hit-count tie.
const WinnerDraw = "DRAW"

const (
	ErrorCodeGameOver          = "game_over"
	ErrorCodeInvalidLength     = "invalid_length"
	ErrorCodeNonAlphabetic     = "non_alphabetic"
	ErrorCodeNoMoreGuesses     = "no_more_guesses"
	ErrorCodeNotInWordList     = "not_in_word_list"
	ErrorCodeDuplicateGuess    = "duplicate_guess"
	ErrorCodeSessionNotFound   = "session_not_found"
	ErrorCodeRoomNotFound      = "room_not_found"
	ErrorCodeRoomFull          = "room_full"
	ErrorCodeNotInRoom         = "not_in_room"
	ErrorCodePlayerNotInGame   = "player_not_in_game"
	ErrorCodeGameNotOver       = "game_not_over"
	ErrorCodeInvalidMaxRounds  = "invalid_max_rounds"
	ErrorCodeInvalidCredential = "invalid_credentials"
)

const (
	RequestIDKey ContextKey = "request_id"
)
