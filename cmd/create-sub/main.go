package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/DallanL/nms-like-n-subscribe/internal/domain/subscription/consts"
	"github.com/DallanL/nms-like-n-subscribe/internal/domain/subscription/dto"
	"github.com/joho/godotenv"
)

const (
	defaultModel     = consts.ModelPresence
	defaultExpiresIn = 1 // days
)

var domainPattern = regexp.MustCompile(`^\d{10}\.com$`)

type wizard struct {
	reader *bufio.Reader
}

func main() {
	_ = godotenv.Load()

	host := getEnv("CREATE_SUB_HOST", "http://localhost:8001/subscriptions")
	defaultPostURL := getEnv("DEFAULT_POST_URL", "")

	w := &wizard{reader: bufio.NewReader(os.Stdin)}

	for {
		req := w.collect(defaultPostURL)
		if w.confirm(req) {
			if err := post(host, req); err != nil {
				fmt.Printf("Failed to create subscription: %v\n", err)
				os.Exit(1)
			}
			return
		}
		fmt.Println("Let's try again.")
	}
}

func (w *wizard) collect(defaultPostURL string) dto.CreateSubscriptionRequest {
	model := w.prompt(fmt.Sprintf("Enter model (default: %s): ", defaultModel))
	if model == "" {
		model = defaultModel
	}
	for !consts.IsValidModel(strings.ToLower(model)) {
		fmt.Printf("Invalid model. Valid options are: %s\n", strings.Join(consts.ValidModels, ", "))
		model = w.prompt(fmt.Sprintf("Enter model (default: %s): ", defaultModel))
		if model == "" {
			model = defaultModel
		}
	}
	model = strings.ToLower(model)

	domain := strings.ToLower(w.prompt("Enter domain (10-digit number followed by .com): "))
	for !domainPattern.MatchString(domain) {
		fmt.Println("Invalid domain format. Example: 1234567890.com")
		domain = strings.ToLower(w.prompt("Enter domain (10-digit number followed by .com): "))
	}

	postURL := w.prompt(fmt.Sprintf("Enter post_url (default: %s): ", defaultPostURL))
	if postURL == "" {
		postURL = defaultPostURL
	}

	expiresIn := defaultExpiresIn
	if raw := w.prompt(fmt.Sprintf("Enter number of days before expiration (default: %d): ", defaultExpiresIn)); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			fmt.Printf("Invalid input. Defaulting to %d days.\n", defaultExpiresIn)
		} else {
			expiresIn = parsed
		}
	}

	req := dto.CreateSubscriptionRequest{
		Model:   model,
		Domain:  domain,
		Expires: time.Now().UTC().AddDate(0, 0, expiresIn).Format(time.RFC3339),
	}
	if postURL != "" {
		req.PostURL = &postURL
	}
	if user := w.prompt("Enter user (optional, press Enter to skip): "); user != "" {
		req.User = &user
	}

	return req
}

func (w *wizard) confirm(req dto.CreateSubscriptionRequest) bool {
	fmt.Println("\nPlease confirm the following information:")
	fmt.Printf("Model: %s\n", req.Model)
	fmt.Printf("Domain: %s\n", req.Domain)
	fmt.Printf("Post URL: %s\n", strOrNone(req.PostURL))
	fmt.Printf("Expires: %s\n", req.Expires)
	fmt.Printf("User: %s\n", strOrNone(req.User))

	answer := strings.ToLower(w.prompt("Is this information correct? (y/n): "))
	return answer == "y"
}

func (w *wizard) prompt(label string) string {
	fmt.Print(label)
	line, err := w.reader.ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.TrimSpace(line)
}

func post(host string, req dto.CreateSubscriptionRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return err
	}

	resp, err := http.Post(host, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, respBody)
	}

	fmt.Println("Subscription created successfully!")
	fmt.Printf("Response: %s\n", respBody)
	return nil
}

func strOrNone(v *string) string {
	if v == nil || *v == "" {
		return "None"
	}
	return *v
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
