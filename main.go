package main

import (
	"log"
	"os"

	"Relay/Dispatch"
	"Relay/FiberConfig"
	"Relay/Models"
	"Relay/SimpleLogin"
	"Relay/Templates"
	"Relay/email"
	"Relay/utils"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using process environment")
	}

	apiKey := os.Getenv("API_KEY")
	if apiKey == "" {
		log.Fatal("API_KEY not set")
	}

	// The account store and template set are built once here, before any
	// traffic is accepted, and stay read-only for the process lifetime
	accounts, err := Models.LoadSmtpAccounts(utils.GetEnv("SMTP_CREDS_FILE", "smtp_creds.json"))
	if err != nil {
		log.Printf("Error loading SMTP credentials: %v", err)
		accounts = Models.NewAccountStore(nil)
	}
	log.Printf("Loaded %d SMTP accounts", accounts.Len())

	templates, err := Templates.Load(utils.GetEnv("EMAIL_TEMPLATE_DIR", "email_templates"))
	if err != nil {
		log.Printf("Error loading email templates: %v", err)
		templates = Templates.NewStore(nil)
	}
	log.Printf("Loaded %d email templates", templates.Len())

	var provider Dispatch.AliasProvider
	if key := os.Getenv("SIMPLELOGIN_API_KEY"); key != "" {
		provider = SimpleLogin.NewClient(key, os.Getenv("SIMPLELOGIN_API_BASE_URL"))
	} else {
		log.Println("SIMPLELOGIN_API_KEY not set, alias delivery disabled")
	}

	dispatcher := Dispatch.NewDispatcher(accounts, templates, provider, Dispatch.SenderFunc(email.SendEmail))

	FiberConfig.FiberConfig(apiKey, dispatcher)
}
