package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	catalogstore "github.com/dalemusser/strataassign/internal/app/store/catalog"
	"github.com/dalemusser/strataassign/internal/app/system/indexes"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a catalog and roster JSON file into MongoDB",
	Long: `Upsert subjects, courses, chapters, classes and students from a JSON file
into the database used by catalog_source=mongo. Indexes are created first.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringP("file", "f", "", "Catalog file (JSON)")
	seedCmd.Flags().String("mongo-uri", "mongodb://localhost:27017", "MongoDB connection URI")
	seedCmd.Flags().String("db", "strata_assign", "MongoDB database name")
	_ = seedCmd.MarkFlagRequired("file")
}

func runSeed(cmd *cobra.Command, args []string) error {
	log := logger(cmd)
	defer func() { _ = log.Sync() }()

	path, _ := cmd.Flags().GetString("file")
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var cat catalogstore.Catalog
	if err := json.Unmarshal(raw, &cat); err != nil {
		return fmt.Errorf("decode catalog: %w", err)
	}

	uri, _ := cmd.Flags().GetString("mongo-uri")
	name, _ := cmd.Flags().GetString("db")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return fmt.Errorf("mongo connect: %w", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	db := client.Database(name)
	if err := indexes.EnsureAll(ctx, db, log); err != nil {
		return err
	}
	if err := catalogstore.New(db).Seed(ctx, cat); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d subjects, %d courses, %d chapters, %d classes, %d students\n",
		len(cat.Subjects), len(cat.Courses), len(cat.Chapters), len(cat.Classes), len(cat.Students))
	return nil
}
