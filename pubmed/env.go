package pubmed

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// EmailEnv names the variable holding the Entrez contact address.
const EmailEnv = "ENTREZ_EMAIL"

// EmailFromEnv returns ENTREZ_EMAIL from the environment, falling back to a
// .env file in the working directory. The process environment is not modified.
func EmailFromEnv() (string, error) {
	if v := strings.TrimSpace(os.Getenv(EmailEnv)); v != "" {
		return v, nil
	}
	if env, err := godotenv.Read(); err == nil {
		if v := strings.TrimSpace(env[EmailEnv]); v != "" {
			return v, nil
		}
	}

	return "", ErrMissingEmail
}
