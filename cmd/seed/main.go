// Command seed imports posts from a JSON or TOML file into the postsd
// SQLite database.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/debemdeboas/postdeck/internal/config"
	"github.com/debemdeboas/postdeck/internal/db"
	"github.com/debemdeboas/postdeck/internal/logger"
	"github.com/debemdeboas/postdeck/internal/model"
	"github.com/debemdeboas/postdeck/internal/repository"
)

// seedFile is the TOML layout: a list of [[posts]] tables.
type seedFile struct {
	Posts []model.PostInput `toml:"posts"`
}

func main() {
	flags := pflag.NewFlagSet("seed", pflag.ExitOnError)
	file := flags.StringP("file", "f", "", "posts to import (.json or .toml)")
	configPath := flags.String("config", "config.yaml", "path to the configuration file")
	dbPath := flags.String("db", "", "database path; overrides server.database.path")
	flags.Parse(os.Args[1:])

	log := logger.New(config.DefaultLogLevel, os.Stderr)

	if *file == "" {
		log.Fatal().Msg("--file is required")
	}

	if err := config.LoadConfig(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	path := config.AppConfig.Server.Database.Path
	if *dbPath != "" {
		path = *dbPath
	}

	posts, err := loadSeed(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("Error reading seed file")
	}

	database := db.NewSQLite(path)
	if err := database.InitDB(); err != nil {
		log.Fatal().Err(err).Msgf(config.ErrInitializeDatabaseFmt, err)
	}
	defer database.Close()

	imported := seed(context.Background(), repository.NewDBPostRepository(database), posts, log)
	log.Info().Int("imported", imported).Int("total", len(posts)).Str("db", path).Msg("Seeding finished")
}

// loadSeed reads posts from a .json array or a .toml file with [[posts]]
// tables. JSON entries may carry ids; they are ignored.
func loadSeed(path string) ([]model.PostInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		var posts []model.Post
		if err := json.Unmarshal(data, &posts); err != nil {
			return nil, fmt.Errorf("error parsing %s: %w", path, err)
		}
		inputs := make([]model.PostInput, 0, len(posts))
		for _, p := range posts {
			inputs = append(inputs, p.Input())
		}
		return inputs, nil
	case ".toml":
		var f seedFile
		if _, err := toml.Decode(string(data), &f); err != nil {
			return nil, fmt.Errorf("error parsing %s: %w", path, err)
		}
		return f.Posts, nil
	}

	return nil, fmt.Errorf("unsupported seed file extension %q", filepath.Ext(path))
}

// seed creates every valid post and skips invalid ones with a warning. It
// returns the number of posts created.
func seed(ctx context.Context, repo repository.PostRepository, posts []model.PostInput, log zerolog.Logger) int {
	imported := 0
	for i, in := range posts {
		if err := model.ValidatePost(in); err != nil {
			log.Warn().Int("index", i).Str("title", in.Title).Err(err).Msg("Skipping invalid post")
			continue
		}

		post, err := repo.Create(ctx, in)
		if err != nil {
			log.Error().Int("index", i).Err(err).Msg("Error saving post")
			continue
		}

		log.Info().Str("post_id", post.ID.String()).Str("title", post.Title).Msg("Imported post")
		imported++
	}
	return imported
}
