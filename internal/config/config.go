// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultMaxCommentLength is GitHub's issue comment size cap.
const DefaultMaxCommentLength = 65536

// Config holds the application configuration loaded from environment variables.
type Config struct {
	GitHubToken    string
	GitHubOrg      string
	GitHubRepo     string
	GitHubUsername string

	TravisURL  string
	ListenAddr string
	DBPath     string
	LogLevel   string

	LogMarker        string
	MaxCommentLength int
	SuppressEmpty    []string
}

// RepoFullName returns the watched repository as "org/repo".
func (c *Config) RepoFullName() string {
	return c.GitHubOrg + "/" + c.GitHubRepo
}

// Load reads configuration from the environment and returns a validated
// Config. A .env file in the working directory is merged in first when
// present. Required variables: PRBUILDBOT_GITHUB_TOKEN,
// PRBUILDBOT_GITHUB_ORG, PRBUILDBOT_GITHUB_REPO.
// PRBUILDBOT_GITHUB_USERNAME is optional; when empty, the bot login is
// resolved through the API at startup.
func Load() (*Config, error) {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	token := os.Getenv("PRBUILDBOT_GITHUB_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("PRBUILDBOT_GITHUB_TOKEN is required")
	}

	org := os.Getenv("PRBUILDBOT_GITHUB_ORG")
	if org == "" {
		return nil, fmt.Errorf("PRBUILDBOT_GITHUB_ORG is required")
	}

	repo := os.Getenv("PRBUILDBOT_GITHUB_REPO")
	if repo == "" {
		return nil, fmt.Errorf("PRBUILDBOT_GITHUB_REPO is required")
	}

	travisURL := "https://api.travis-ci.org"
	if v, ok := os.LookupEnv("PRBUILDBOT_TRAVIS_URL"); ok {
		travisURL = v
	}

	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("PRBUILDBOT_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "prbuildbot.db"
	if v, ok := os.LookupEnv("PRBUILDBOT_DB_PATH"); ok {
		dbPath = v
	}

	logMarker := "check_stability"
	if v, ok := os.LookupEnv("PRBUILDBOT_LOG_MARKER"); ok && v != "" {
		logMarker = v
	}

	maxCommentLength := DefaultMaxCommentLength
	if v, ok := os.LookupEnv("PRBUILDBOT_MAX_COMMENT_LENGTH"); ok {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			return nil, fmt.Errorf("PRBUILDBOT_MAX_COMMENT_LENGTH has invalid value %q", v)
		}
		maxCommentLength = parsed
	}

	var suppressEmpty []string
	if v, ok := os.LookupEnv("PRBUILDBOT_SUPPRESS_EMPTY"); ok && v != "" {
		for _, title := range strings.Split(v, ",") {
			title = strings.TrimSpace(title)
			if title != "" {
				suppressEmpty = append(suppressEmpty, title)
			}
		}
	}
	if suppressEmpty == nil {
		suppressEmpty = []string{}
	}

	return &Config{
		GitHubToken:      token,
		GitHubOrg:        org,
		GitHubRepo:       repo,
		GitHubUsername:   os.Getenv("PRBUILDBOT_GITHUB_USERNAME"),
		TravisURL:        travisURL,
		ListenAddr:       listenAddr,
		DBPath:           dbPath,
		LogLevel:         os.Getenv("PRBUILDBOT_LOG_LEVEL"),
		LogMarker:        logMarker,
		MaxCommentLength: maxCommentLength,
		SuppressEmpty:    suppressEmpty,
	}, nil
}
