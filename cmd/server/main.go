package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	zerologlog "github.com/rs/zerolog/log"

	"drawfulbot/internal/bot"
	"drawfulbot/internal/config"
	"drawfulbot/internal/game"
	"drawfulbot/internal/prompt"
)

const version = "v1.0.0"

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
		portFlag    = flag.String("port", "", "Port to listen on (overrides PORT env var)")
	)
	flag.BoolVar(showHelp, "h", false, "Show help message (shorthand)")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Parse()

	if *showHelp {
		fmt.Printf(`drawfulbot - drawing-and-guessing party game over a chat gateway

Usage: %s [options]

Options:
  -h, --help      Show this help message
  -v, --version   Show version information
  --port PORT     Port to listen on (default: 8080 or PORT env var)

Environment Variables:
  PORT            Port to listen on (default: 8080)
  PROMPT_FILE     Text file with one drawing prompt per line (built-in list if unset)
  OUTBOUND_URL    Chat gateway base URL for outbound messages (log-only if unset)
  ADMIN_IDENTITY  Chat identity allowed to issue /reset
  ADMIN_USER      Admin HTTP endpoints basic auth username
  ADMIN_PASS      Admin HTTP endpoints basic auth password
  ROOM_ID_MIN     Lowest room id handed out (default: 100)
  ROOM_ID_MAX     Highest room id handed out (default: 999)
  EXPORT_ENABLED  Append finished game results to a file (default: true)
  EXPORT_FILE     Path for exported results (default: ./drawfulbot-results.txt)
`, os.Args[0])
		return
	}

	if *showVersion {
		fmt.Printf("drawfulbot %s\n", version)
		return
	}

	cfg := config.FromEnv()
	port := *portFlag
	if port == "" {
		port = cfg.Port
	}

	// zerolog setup (human-friendly console)
	zerolog.TimeFieldFormat = time.RFC3339
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	zerologlog.Logger = zerologlog.Output(cw)

	var src prompt.Source = prompt.Builtin
	if cfg.PromptFile != "" {
		src = prompt.FileSource{Path: cfg.PromptFile}
	}
	prompts, err := prompt.NewPool(src)
	if err != nil {
		zerologlog.Fatal().Err(err).Msg("loading prompts")
	}
	zerologlog.Info().Int("prompts", prompts.Size()).Msg("prompt pool ready")

	ids := game.NewIDPool(cfg.RoomIDMin, cfg.RoomIDMax)
	reg := game.NewRegistry(ids, prompts)

	var exporter *game.Exporter
	if cfg.ExportEnabled {
		exporter = &game.Exporter{Path: cfg.ExportFile}
	}

	var sender bot.Sender = bot.LogSender{}
	if cfg.OutboundURL != "" {
		sender = bot.NewHTTPSender(cfg.OutboundURL)
	}
	b := bot.New(reg, sender, exporter, cfg.AdminIdentity)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		zerologlog.Info().
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("dur", time.Since(start)).
			Msg("http")
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
	})

	// Chat gateway webhook: one update per request, either a text
	// message or a poll answer.
	type update struct {
		Message *struct {
			UserID string `json:"userId"`
			Name   string `json:"name"`
			Text   string `json:"text"`
		} `json:"message"`
		PollAnswer *struct {
			UserID string `json:"userId"`
			PollID string `json:"pollId"`
			Option int    `json:"option"`
		} `json:"pollAnswer"`
	}
	r.POST("/update", func(c *gin.Context) {
		var u update
		if err := c.BindJSON(&u); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_update"})
			return
		}
		switch {
		case u.Message != nil:
			b.HandleMessage(u.Message.UserID, u.Message.Name, u.Message.Text)
		case u.PollAnswer != nil:
			b.HandlePollAnswer(u.PollAnswer.UserID, u.PollAnswer.PollID, u.PollAnswer.Option)
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "empty_update"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	if cfg.AdminUser != "" && cfg.AdminPass != "" {
		auth := gin.BasicAuth(gin.Accounts{cfg.AdminUser: cfg.AdminPass})
		r.GET("/api/admin/rooms", auth, func(c *gin.Context) {
			rooms := reg.Rooms()
			out := make([]gin.H, 0, len(rooms))
			for _, room := range rooms {
				players := room.Players()
				names := make([]string, len(players))
				for i, p := range players {
					names[i] = p.Name
				}
				out = append(out, gin.H{
					"id":      room.ID(),
					"phase":   room.Phase(),
					"players": names,
				})
			}
			c.JSON(http.StatusOK, gin.H{"rooms": out})
		})
		r.POST("/api/admin/reset", auth, func(c *gin.Context) {
			reg.HardReset()
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})
	}

	zerologlog.Info().Str("port", port).Msg("listening")
	if err := r.Run(":" + port); err != nil {
		zerologlog.Fatal().Err(err).Msg("server stopped")
	}
}
