package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"

	"github.com/beauteq/salon-assistant/pkg/bot"
	"github.com/beauteq/salon-assistant/pkg/booking"
	"github.com/beauteq/salon-assistant/pkg/config"
	"github.com/beauteq/salon-assistant/pkg/db"
	"github.com/beauteq/salon-assistant/pkg/llm"
	"github.com/beauteq/salon-assistant/pkg/processor"
	"github.com/beauteq/salon-assistant/pkg/rag"
	"github.com/beauteq/salon-assistant/pkg/server"
	"github.com/beauteq/salon-assistant/pkg/server/endpoints"
	"github.com/beauteq/salon-assistant/pkg/server/middleware"
	"github.com/beauteq/salon-assistant/pkg/session"
	gormstore "github.com/beauteq/salon-assistant/pkg/store/gorm"
	"github.com/beauteq/salon-assistant/pkg/view"
)

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8000"
}

func defaultPortInt() int {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			return p
		}
	}
	return 8000
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the salon assistant",
	Long: `Run the salon assistant: the Telegram bot and the HTTP server.

To run the assistant requires the environment variables BOT_TOKEN and DATABASE_URL.

By default, database migrations are run on startup. Use --no-migrate to skip.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Get()
		if webhook, _ := cmd.Flags().GetBool("webhook"); webhook {
			forceWebhookTransport(cfg)
		}

		// Validate required settings first (fail fast)
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, "Invalid configuration:", err)
			os.Exit(1)
		}
		if cfg.TelegramEnabled() && cfg.BotToken == "" {
			fmt.Fprintln(os.Stderr, "BOT_TOKEN environment variable is required")
			os.Exit(1)
		}
		if db.URL() == "" && cfg.DatabaseURL == "" {
			fmt.Fprintln(os.Stderr, "DATABASE_URL environment variable is required")
			os.Exit(1)
		}

		// Run migrations unless --no-migrate is set
		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			log.Println("Running database migrations...")
			if err := runMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		database, err := db.Connect(db.Config{URL: cfg.DatabaseURL})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		users := gormstore.NewUsersStore(database)
		catalog := gormstore.NewCatalogStore(database)
		appointments := gormstore.NewAppointmentsStore(database)
		conversations := gormstore.NewConversationsStore(database)
		knowledgeStore := gormstore.NewKnowledgeStore(database)
		health := gormstore.NewHealthStore(database)

		booker := booking.New(catalog, appointments)
		router := view.NewRouter(
			&view.MastersListView{Catalog: catalog},
			&view.ServicesListView{Catalog: catalog},
			&view.UserAppointmentsView{Appointments: appointments},
			&view.CheckAvailabilityView{Booker: booker},
			&view.CreateAppointmentView{Booker: booker},
		)

		chatter := llm.NewClient(
			cfg.OllamaURL,
			cfg.OllamaModel,
			time.Duration(cfg.OllamaTimeoutSeconds)*time.Second,
		)

		proc := processor.New(
			chatter,
			rag.New(knowledgeStore),
			router,
			session.NewManager(catalog, booker),
			users,
			catalog,
			conversations,
			cfg.SystemPrompt,
			cfg.HistoryLimit,
		)

		var api *tgbotapi.BotAPI
		var salonBot *bot.Bot
		if cfg.TelegramEnabled() {
			api, err = tgbotapi.NewBotAPI(cfg.BotToken)
			if err != nil {
				fmt.Fprintln(os.Stderr, "Unable to reach Telegram:", err)
				os.Exit(1)
			}
			log.Printf("Authorized on Telegram account %s", api.Self.UserName)

			salonBot = bot.New(api, proc, catalog, appointments, users, conversations, bot.SalonInfo{
				Name:         cfg.SalonName,
				Phone:        cfg.SalonPhone,
				Address:      cfg.SalonAddress,
				WorkingHours: cfg.WorkingHours,
			})
		}

		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		s := server.NewServer(database, catalog, appointments, health, host, port)

		endpoints.RegisterHealthEndpoints(s)
		if cfg.StaffTokenSecret != "" {
			auth := middleware.NewStaffAuthenticator([]byte(cfg.StaffTokenSecret))
			endpoints.RegisterStaffEndpoints(s, auth)
		} else {
			log.Println("BEAUTEQ_STAFF_TOKEN_SECRET not set, staff API disabled")
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		switch cfg.Transport {
		case "none":
			log.Println("Telegram transport disabled, serving HTTP only")
		case "webhook":
			if err := registerWebhook(api, s, salonBot, cfg); err != nil {
				fmt.Fprintln(os.Stderr, "Unable to set up webhook:", err)
				os.Exit(1)
			}
		default:
			u := tgbotapi.NewUpdate(0)
			u.Timeout = 30
			go salonBot.Run(ctx, api.GetUpdatesChan(u))
		}

		go func() {
			<-ctx.Done()
			if api != nil {
				api.StopReceivingUpdates()
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = s.Shutdown(shutdownCtx)
		}()

		log.Printf("Running server at http://%s:%s...\n", host, port)
		if err := s.Start(); err != nil {
			log.Println("Server stopped:", err)
		}
	},
}

// forceWebhookTransport applies the --webhook flag over whatever the
// config resolved, mirroring how --port overrides PORT.
func forceWebhookTransport(cfg *config.Config) {
	cfg.Transport = "webhook"
}

func registerWebhook(api *tgbotapi.BotAPI, s *server.Server, salonBot *bot.Bot, cfg *config.Config) error {
	if cfg.WebhookURL == "" {
		return fmt.Errorf("webhook transport requires webhook_url")
	}

	endpoints.RegisterWebhookEndpoint(s, cfg.BotToken, salonBot)

	wh, err := tgbotapi.NewWebhook(cfg.WebhookURL + "/telegram/webhook/" + cfg.BotToken)
	if err != nil {
		return err
	}
	if _, err := api.Request(wh); err != nil {
		return err
	}
	log.Printf("Webhook registered at %s/telegram/webhook/<token>", cfg.WebhookURL)
	return nil
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
	serverCmd.Flags().Bool("webhook", false, "receive Telegram updates over webhook instead of polling")
}
