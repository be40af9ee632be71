package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/google/uuid"
	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/olekukonko/tablewriter"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	ServerURL  string `env:"RELAY_SERVER_URL,default=ws://localhost:3000/ws"`
	Username   string `env:"RELAY_USERNAME,required=true"`
	MyLanguage string `env:"RELAY_LANGUAGE,default=auto"`
}

type outbound struct {
	Type             string `json:"type"`
	UserID           string `json:"userId,omitempty"`
	Username         string `json:"username,omitempty"`
	MyLanguage       string `json:"myLanguage,omitempty"`
	Message          string `json:"message,omitempty"`
	OutgoingLanguage string `json:"outgoingLanguage,omitempty"`
	IncomingLanguage string `json:"incomingLanguage,omitempty"`
	TargetLanguage   string `json:"targetLanguage,omitempty"`
}

type inbound struct {
	Type            string            `json:"type"`
	Username        string            `json:"username"`
	Message         string            `json:"message"`
	OriginalMessage string            `json:"originalMessage"`
	Translations    map[string]string `json:"translations"`
	Users           []struct {
		UserID   string `json:"userId"`
		Username string `json:"username"`
	} `json:"users"`
	OriginalText   string    `json:"originalText"`
	TranslatedText string    `json:"translatedText"`
	TargetLanguage string    `json:"targetLanguage"`
	Timestamp      time.Time `json:"timestamp"`
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

// run handles the WebSocket client lifecycle: join, print incoming events,
// and forward stdin lines as chat messages.
func run() (int, error) {
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, config.ServerURL, nil)
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to %s: %w", config.ServerURL, err)
	}
	defer conn.Close()

	userID := uuid.NewString()
	if err := conn.WriteJSON(outbound{
		Type:       "join",
		UserID:     userID,
		Username:   config.Username,
		MyLanguage: config.MyLanguage,
	}); err != nil {
		return exitRuntime, err
	}

	go readLoop(conn, config.MyLanguage)

	color.Green.Printf("Connected as %s (receiving %s). Type to chat, /translate <lang> <text> for one-offs, /lang <tag> to switch.\n",
		config.Username, config.MyLanguage)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return exitOK, nil
		default:
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		msg, ok := parseLine(line, config.MyLanguage)
		if !ok {
			continue
		}
		if err := conn.WriteJSON(msg); err != nil {
			return exitRuntime, fmt.Errorf("connection lost: %w", err)
		}
	}
	return exitOK, scanner.Err()
}

func parseLine(line, myLanguage string) (outbound, bool) {
	switch {
	case strings.HasPrefix(line, "/translate "):
		parts := strings.SplitN(strings.TrimPrefix(line, "/translate "), " ", 2)
		if len(parts) != 2 {
			color.Yellow.Println("Usage: /translate <lang> <text>")
			return outbound{}, false
		}
		return outbound{Type: "translate", Message: parts[1], TargetLanguage: parts[0]}, true
	case strings.HasPrefix(line, "/lang "):
		tag := strings.TrimSpace(strings.TrimPrefix(line, "/lang "))
		return outbound{Type: "update-settings", MyLanguage: tag}, true
	default:
		return outbound{
			Type:             "chat",
			Message:          line,
			OutgoingLanguage: "auto",
			IncomingLanguage: myLanguage,
		}, true
	}
}

func readLoop(conn *websocket.Conn, myLanguage string) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			color.Red.Println("Disconnected from server")
			os.Exit(exitRuntime)
		}
		var in inbound
		if err := json.Unmarshal(data, &in); err != nil {
			continue
		}
		render(in, myLanguage)
	}
}

func render(in inbound, myLanguage string) {
	switch in.Type {
	case "chat":
		text := in.OriginalMessage
		if translated, ok := in.Translations[myLanguage]; ok && translated != "" {
			text = translated
		}
		color.Cyan.Printf("[%s] ", in.Username)
		fmt.Println(text)
	case "system":
		color.Gray.Printf("-- %s --\n", in.Message)
	case "translation-result":
		color.Magenta.Printf("%s -> [%s] %s\n", in.OriginalText, in.TargetLanguage, in.TranslatedText)
	case "user-list":
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"User ID", "Username"})
		table.SetAutoFormatHeaders(true)
		table.SetBorder(false)
		table.SetCenterSeparator("")
		table.SetColumnSeparator("")
		table.SetRowSeparator("")
		for _, u := range in.Users {
			table.Append([]string{u.UserID, u.Username})
		}
		table.Render()
	}
}
