// Command seed inserts one Topic, one Flow bound to it, and a single
// sequence=1 FlowStep into a local dev database. Re-running it is safe: the
// topic insert is idempotent on name, and the flow/flow_step inserts are
// skipped once a flow with the same name already exists.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/arrowkit/flowcore/config"
	"github.com/arrowkit/flowcore/internal/domain"
	"github.com/arrowkit/flowcore/internal/infrastructure/postgres"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	pool, err := postgres.Connect(ctx, postgres.ConnParams{
		DB:       cfg.PGDB,
		User:     cfg.PGUser,
		Password: cfg.PGSecret,
		Host:     cfg.PGHost,
		Port:     cfg.PGPort,
	}, 2, 1)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	topicRepo := postgres.NewTopicRepository(pool)
	landingDir := "/data/landing/"
	topic, err := topicRepo.Insert(ctx, domain.Topic{
		Name:       "NFT",
		SearchText: "nft",
		LandingDir: &landingDir,
	})
	if err != nil {
		log.Fatalf("seed topic: %v", err)
	}

	var existingID int64
	err = pool.QueryRow(ctx, `SELECT id FROM flow WHERE flow_name = $1`, "std-nlp-topic-land").Scan(&existingID)
	flowAlreadySeeded := err == nil

	var flowID int64
	var flowStepCount int

	if flowAlreadySeeded {
		flowID = existingID
	} else {
		flowRepo := postgres.NewFlowRepository(pool, slog.Default())
		flow, err := flowRepo.Insert(ctx, domain.Flow{
			Name:      "std-nlp-topic-land",
			TopicID:   &topic.ID,
			IsActive:  true,
			Frequency: "0 0 0 * * * *",
		})
		if err != nil {
			log.Fatalf("seed flow: %v", err)
		}
		flowID = flow.ID

		params := ""
		flowStepRepo := postgres.NewFlowStepRepository(pool, slog.Default())
		outputDir := "/data/landing/"
		if _, err := flowStepRepo.Insert(ctx, domain.FlowStep{
			Name:             "nlp-topic-land",
			SequenceID:       1,
			FlowID:           flowID,
			InputDir:         "",
			OutputDir:        outputDir,
			ScriptPath:       "nlp_topic_land",
			ScriptParameters: &params,
		}); err != nil {
			log.Fatalf("seed flow step: %v", err)
		}
		flowStepCount = 1
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  Topic:      %s (id=%d)\n", topic.Name, topic.ID)
	if flowAlreadySeeded {
		fmt.Printf("  Flow:       std-nlp-topic-land (id=%d, already existed, skipped)\n", flowID)
	} else {
		fmt.Printf("  Flow:       std-nlp-topic-land (id=%d)\n", flowID)
		fmt.Printf("  FlowSteps:  %d created\n", flowStepCount)
	}
}
