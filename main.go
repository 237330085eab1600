package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"

	"lsa-go/cogs"
	"lsa-go/games/blackjack"
	"lsa-go/utils"
)

var botStatus = "starting"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	go startHealthServer()

	if err := utils.SetupDatabase(); err != nil {
		log.Printf("Database setup failed: %v", err)
		log.Println("Bot will continue with in-memory balances")
	} else if os.Getenv("DATABASE_URL") != "" {
		log.Println("Database connected successfully")
		defer utils.CloseDatabase()
	}

	utils.InitializeCache(5 * time.Minute)
	defer utils.CloseCache()

	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		log.Println("BOT_TOKEN not set - Discord bot will not connect")
		botStatus = "no_token"
		select {}
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		log.Fatalf("Failed to create Discord session: %v", err)
	}

	// Cancelling this context aborts in-flight game sessions on shutdown
	// without leaking their guard entries.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ledger := utils.NewChipLedger()
	guard := blackjack.NewSessionGuard()
	blackjackCog := cogs.NewBlackjackCog(ctx, ledger, guard)

	session.Identify.Intents = discordgo.IntentsGuildMessages

	session.AddHandler(onReady(blackjackCog))
	session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		switch i.Type {
		case discordgo.InteractionApplicationCommand:
			handleCommand(blackjackCog, s, i)
		case discordgo.InteractionMessageComponent:
			if strings.HasPrefix(i.MessageComponentData().CustomID, "bj_") {
				blackjackCog.HandleInteraction(s, i)
			}
		}
	})

	if err := session.Open(); err != nil {
		log.Fatalf("Failed to open Discord connection: %v", err)
	}
	defer session.Close()

	log.Println("Bot is now running. Press CTRL+C to exit.")
	botStatus = "running"

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-stop

	log.Println("Gracefully shutting down...")
	botStatus = "shutting_down"
	cancel()
}

func onReady(blackjackCog *cogs.BlackjackCog) func(*discordgo.Session, *discordgo.Ready) {
	return func(s *discordgo.Session, event *discordgo.Ready) {
		log.Printf("Discord bot logged in as %s (ID: %s)", event.User.Username, event.User.ID)
		botStatus = "online"

		if err := registerSlashCommands(s, blackjackCog); err != nil {
			log.Printf("Failed to register slash commands: %v", err)
		}
	}
}

func registerSlashCommands(s *discordgo.Session, blackjackCog *cogs.BlackjackCog) error {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "ping",
			Description: "Check bot latency and status",
		},
		{
			Name:        "balance",
			Description: "Check your current chip balance",
		},
		{
			Name:        "profile",
			Description: "View your casino profile and stats",
		},
		blackjackCog.Command(),
	}

	for _, command := range commands {
		if _, err := s.ApplicationCommandCreate(s.State.User.ID, "", command); err != nil {
			return fmt.Errorf("failed to create command %s: %w", command.Name, err)
		}
	}

	log.Printf("Successfully registered %d slash commands", len(commands))
	return nil
}

func handleCommand(blackjackCog *cogs.BlackjackCog, s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "ping":
		handlePingCommand(s, i)
	case "balance":
		handleBalanceCommand(s, i)
	case "profile":
		handleProfileCommand(s, i)
	case "blackjack":
		blackjackCog.HandleCommand(s, i)
	}
}

func handlePingCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	latency := s.HeartbeatLatency()
	embed := utils.CreateBrandedEmbed(
		"🏓 Pong!",
		fmt.Sprintf("Latency: %dms", latency.Milliseconds()),
		utils.BotColor,
	)
	utils.SendInteractionResponse(s, i, embed, nil, false)
}

func handleBalanceCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID, _ := utils.ParseUserID(i.Member.User.ID)

	user, err := utils.GetCachedUser(userID)
	if err != nil {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed("Error accessing user data."), nil, true)
		return
	}

	utils.SendInteractionResponse(s, i, utils.BalanceEmbed(i.Member.User.Username, user), nil, false)
}

func handleProfileCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID, _ := utils.ParseUserID(i.Member.User.ID)

	user, err := utils.GetCachedUser(userID)
	if err != nil {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed("Error accessing user data."), nil, true)
		return
	}

	utils.SendInteractionResponse(s, i, utils.ProfileEmbed(i.Member.User.Username, user), nil, false)
}

func startHealthServer() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","bot_status":"%s"}`, botStatus)
	})

	log.Printf("Health server starting on port %s", port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Printf("Health server error: %v", err)
	}
}
