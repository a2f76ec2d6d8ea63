package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shashiranjanraj/dukaan/config"
	"github.com/shashiranjanraj/dukaan/database/migrations"
	"github.com/shashiranjanraj/dukaan/database/seeders"
	"github.com/shashiranjanraj/dukaan/pkg/mongodb"
)

// bootDB loads config and opens the MongoDB connection.
func bootDB(ctx context.Context) (*mongo.Database, func(), error) {
	if err := config.Load(); err != nil {
		return nil, nil, err
	}
	client, err := mongodb.Connect(ctx)
	if err != nil {
		return nil, nil, err
	}
	disconnect := func() { mongodb.Disconnect(client) }
	return mongodb.Database(client), disconnect, nil
}

// dukaan db:index
var dbIndexCmd = &cobra.Command{
	Use:   "db:index",
	Short: "Create all MongoDB indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		db, disconnect, err := bootDB(ctx)
		if err != nil {
			return err
		}
		defer disconnect()

		fmt.Println("Creating indexes…")
		return migrations.EnsureIndexes(ctx, db)
	},
}

// dukaan db:seed
var dbSeedCmd = &cobra.Command{
	Use:   "db:seed",
	Short: "Run all database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		db, disconnect, err := bootDB(ctx)
		if err != nil {
			return err
		}
		defer disconnect()

		fmt.Println("Running seeders…")
		return seeders.RunAll(ctx, db)
	},
}
