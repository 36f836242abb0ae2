package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureUserIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("users").Indexes()

	models := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "uid", Value: 1}},
			Options: options.Index().
				SetName("uid_unique").
				SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().
				SetName("email_unique").
				SetUnique(true),
		},
	}

	log.Println("EnsureUserIndexes: creating uid_unique, email_unique indexes")
	_, err := indexes.CreateMany(ctx, models)
	if err != nil {
		log.Println("EnsureUserIndexes: index error:", err)
		return err
	}
	return nil
}

func EnsureProductIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("products").Indexes()

	managerIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "managerEmail", Value: 1}},
		Options: options.Index().SetName("managerEmail_index"),
	}

	log.Println("EnsureProductIndexes: creating managerEmail_index")
	_, err := indexes.CreateOne(ctx, managerIndex)
	if err != nil {
		log.Println("EnsureProductIndexes: managerEmail index error:", err)
		return err
	}
	return nil
}

func EnsureOrderIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("orders").Indexes()

	models := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "trackingId", Value: 1}},
			Options: options.Index().
				SetName("trackingId_unique").
				SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetName("userId_index"),
		},
		{
			Keys: bson.D{
				{Key: "managerEmail", Value: 1},
				{Key: "status", Value: 1},
			},
			Options: options.Index().SetName("managerEmail_status_index"),
		},
	}

	log.Println("EnsureOrderIndexes: creating trackingId_unique, userId_index, managerEmail_status_index")
	_, err := indexes.CreateMany(ctx, models)
	if err != nil {
		log.Println("EnsureOrderIndexes: index error:", err)
		return err
	}
	return nil
}
