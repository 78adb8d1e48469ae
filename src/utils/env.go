package utils

import (
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const DEV_ENV_FILENAME = ".env.development"
const PROD_ENV_FILENAME = ".env.production"

// InitEnvironmentVariables loads the env file for the current GO_ENV from the
// working directory. A missing file is not fatal: every setting has a
// built-in default.
func InitEnvironmentVariables() {
	envFile := DEV_ENV_FILENAME
	if os.Getenv("GO_ENV") == "production" {
		envFile = PROD_ENV_FILENAME
	}

	if err := godotenv.Load(envFile); err != nil {
		log.Debugf("InitEnvironmentVariables: no %s file loaded: %v", envFile, err)
	}
}
