package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/tomz197/spacedefenders/internal/asset"
	"github.com/tomz197/spacedefenders/internal/game"
	"github.com/tomz197/spacedefenders/internal/input"
)

// Settings is the configuration shared by the binaries. Each binary reads
// the fields it needs.
type Settings struct {
	LogLevel string
	LogFile  string // Empty logs to stderr for servers, nowhere for the local game

	PipelineRepeat int
	Seed           int64 // 0 seeds from the clock
	PlayerName     string
	HighScoreFile  string // Empty keeps the high score in memory
	LeaderboardURL string // Empty disables the leaderboard

	MusicFile string
	Volume    float64

	Sprites asset.Manifest

	MaxCols int // 0 means no limit
	MaxRows int

	InputHold      time.Duration
	IdleDisconnect bool // SSH only

	SSHHost     string
	SSHPort     string
	HostKeyPath string

	WebHost        string
	WebPort        string
	AllowedOrigins []string
	Capacity       int
	RateLimitRPS   float64
	RateLimitBurst int
}

// LoadDotEnv reads the first .env file found in paths into the process
// environment without overriding variables that are already set. A missing
// file is not an error.
func LoadDotEnv(paths ...string) (string, error) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		err := godotenv.Load(p)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
	}
	return "", nil
}

// Load builds Settings from the environment.
func Load() Settings {
	def := asset.DefaultManifest()
	return Settings{
		LogLevel: GetEnv("LOG_LEVEL", "info"),
		LogFile:  GetEnv("LOG_FILE", ""),

		PipelineRepeat: GetEnvInt("PIPELINE_REPEAT", game.DefaultPipelineRepeat),
		Seed:           GetEnvInt64("GAME_SEED", 0),
		PlayerName:     GetEnv("PLAYER_NAME", os.Getenv("USER")),
		HighScoreFile:  GetEnv("HIGH_SCORE_FILE", ""),
		LeaderboardURL: GetEnv("LEADERBOARD_URL", ""),

		MusicFile: GetEnv("MUSIC_FILE", ""),
		Volume:    GetEnvFloat("VOLUME", 0),

		Sprites: asset.Manifest{
			Player: GetEnv("PLAYER_SPRITE", def.Player),
			Aliens: GetEnvList("ALIEN_SPRITES", def.Aliens),
		},

		MaxCols: GetEnvInt("MAX_COLS", 0),
		MaxRows: GetEnvInt("MAX_ROWS", 0),

		InputHold:      GetEnvDuration("INPUT_HOLD", input.DefaultHoldDuration),
		IdleDisconnect: GetEnvBool("IDLE_DISCONNECT", true),

		SSHHost:     GetEnv("SSH_HOST", "localhost"),
		SSHPort:     GetEnv("SSH_PORT", "23234"),
		HostKeyPath: GetEnv("HOST_KEY_PATH", ".ssh/id_ed25519"),

		WebHost:        GetEnv("WEB_HOST", "localhost"),
		WebPort:        GetEnv("WEB_PORT", "8080"),
		AllowedOrigins: GetEnvList("CORS_ORIGINS", []string{"*"}),
		Capacity:       GetEnvInt("LEADERBOARD_CAPACITY", 1000),
		RateLimitRPS:   GetEnvFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: GetEnvInt("RATE_LIMIT_BURST", 10),
	}
}
