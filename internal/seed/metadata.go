// Package seed provides demo business metadata for local development.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/uridolan77/reportaing-admin/internal/metadata"
)

const seedActor = "system"

// Metadata creates a small reporting-schema metadata set: two tables with
// columns, a domain grouping them, and a handful of configs. If any tables
// already exist the seed is skipped, so it is safe to run on every start.
func Metadata(ctx context.Context, store metadata.Store, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}

	_, total, err := store.ListTables(ctx, metadata.ListOptions{Limit: 1, IncludeInactive: true})
	if err != nil {
		return fmt.Errorf("checking existing tables: %w", err)
	}
	if total > 0 {
		log.Info("metadata already seeded, skipping", zap.Int("tables", total))
		return nil
	}

	now := time.Now().UTC()
	stamp := func() (string, time.Time) { return seedActor, now }

	dailyActions := &metadata.BusinessTable{
		ID:                     uuid.NewString(),
		SchemaName:             "common",
		TableName:              "tbl_Daily_actions",
		BusinessPurpose:        "Daily per-player aggregates of money in, money out, and gameplay.",
		PrimaryUseCase:         "Deposits, withdrawals, and GGR questions at daily grain.",
		NaturalLanguageAliases: `["daily actions", "player deposits", "daily activity"]`,
		UsagePatterns: `{
  "grain": "player-day",
  "join_keys": ["PlayerID", "Date"],
  "preferred_filters": ["Date", "BrandID"]
}`,
		RelatedBusinessTerms: `["GGR", "NGR", "deposits", "withdrawals"]`,
		BusinessRules: `{
  "currency": "amounts are in player currency unless converted via tbl_Currency_rates",
  "date": "Date is the activity day in UTC"
}`,
		DomainClassification: "player_activity",
		ImportanceScore:      0.9,
		UsageFrequency:       120,
		IsActive:             true,
	}
	dailyActions.CreatedBy, dailyActions.CreatedAt = stamp()
	dailyActions.UpdatedBy, dailyActions.UpdatedAt = stamp()

	games := &metadata.BusinessTable{
		ID:                     uuid.NewString(),
		SchemaName:             "common",
		TableName:              "tbl_Daily_actions_games",
		BusinessPurpose:        "Daily per-player, per-game bet and win aggregates.",
		PrimaryUseCase:         "Game performance and provider revenue questions.",
		NaturalLanguageAliases: `["game activity", "bets by game"]`,
		RelatedBusinessTerms:   `["bets", "wins", "game provider"]`,
		DomainClassification:   "player_activity",
		ImportanceScore:        0.7,
		UsageFrequency:         45,
		IsActive:               true,
	}
	games.CreatedBy, games.CreatedAt = stamp()
	games.UpdatedBy, games.UpdatedAt = stamp()

	for _, t := range []*metadata.BusinessTable{dailyActions, games} {
		if err := store.CreateTable(ctx, t); err != nil {
			return fmt.Errorf("seeding table %s: %w", t.TableName, err)
		}
	}

	columns := []*metadata.BusinessColumn{
		{
			TableID:                dailyActions.ID,
			ColumnName:             "Deposits",
			DataType:               "decimal(18,2)",
			BusinessMeaning:        "Sum of completed deposits for the player on that day.",
			DataExamples:           `["150.00", "0.00", "1200.50"]`,
			NaturalLanguageAliases: `["money in", "deposited amount"]`,
			SemanticTags:           `["monetary", "additive"]`,
			IsActive:               true,
		},
		{
			TableID:         dailyActions.ID,
			ColumnName:      "PlayerID",
			DataType:        "bigint",
			BusinessMeaning: "Player identifier, joins to tbl_Players.",
			SemanticTags:    `["identifier", "join_key"]`,
			IsKeyColumn:     true,
			IsActive:        true,
		},
		{
			TableID:                games.ID,
			ColumnName:             "RealBetAmount",
			DataType:               "decimal(18,2)",
			BusinessMeaning:        "Real-money stakes placed on the game that day.",
			NaturalLanguageAliases: `["bets", "stakes", "wagered"]`,
			SemanticTags:           `["monetary", "additive"]`,
			IsActive:               true,
		},
	}
	for _, c := range columns {
		c.ID = uuid.NewString()
		c.CreatedBy, c.CreatedAt = stamp()
		c.UpdatedBy, c.UpdatedAt = stamp()
		if err := store.CreateColumn(ctx, c); err != nil {
			return fmt.Errorf("seeding column %s: %w", c.ColumnName, err)
		}
	}

	domain := &metadata.BusinessDomain{
		ID:            uuid.NewString(),
		DomainName:    "player_activity",
		Description:   "Player gameplay and money movement at daily grain.",
		RelatedTables: `["tbl_Daily_actions", "tbl_Daily_actions_games"]`,
		KeyConcepts:   `["deposits", "withdrawals", "bets", "wins", "GGR"]`,
		CommonQueries: `["total deposits by brand last week", "top games by GGR this month"]`,
		IsActive:      true,
	}
	domain.CreatedBy, domain.CreatedAt = stamp()
	domain.UpdatedBy, domain.UpdatedAt = stamp()
	if err := store.CreateDomain(ctx, domain); err != nil {
		return fmt.Errorf("seeding domain %s: %w", domain.DomainName, err)
	}

	configs := []*metadata.SystemConfig{
		{
			Key:         "ai.default_model",
			Value:       "gpt-4o",
			DataType:    "string",
			Description: "Model used for SQL generation when the request names none.",
		},
		{
			Key:         "ai.confidence_floor",
			Value:       "0.5",
			DataType:    "number",
			Description: "Generations below this confidence are flagged for review.",
		},
		{
			Key:         "ai.provider_api_key",
			Value:       "demo-key-not-real",
			DataType:    "string",
			Description: "Upstream provider credential.",
			IsSensitive: true,
		},
	}
	for _, cfg := range configs {
		cfg.UpdatedBy, cfg.UpdatedAt = stamp()
		if err := store.PutConfig(ctx, cfg); err != nil {
			return fmt.Errorf("seeding config %s: %w", cfg.Key, err)
		}
	}

	log.Info("seeded demo metadata",
		zap.Int("tables", 2),
		zap.Int("columns", len(columns)),
		zap.Int("configs", len(configs)))
	return nil
}
