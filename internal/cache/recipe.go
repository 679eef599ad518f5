package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/socialchef/planner/internal/mealplan"
)

// RecipeCache stores generated recipe details in Redis. Lookups that fail
// for any reason are reported as misses.
type RecipeCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRecipeCache creates a recipe cache. A nil client disables caching.
func NewRecipeCache(client *redis.Client, ttl time.Duration) *RecipeCache {
	return &RecipeCache{
		client: client,
		prefix: "recipe:",
		ttl:    ttl,
	}
}

// Key identifies a recipe by provider and meal. Nutrition figures are left
// out so the same dish shared across plans hits the same entry.
func (c *RecipeCache) Key(provider mealplan.ProviderID, meal mealplan.Meal) string {
	raw := strings.Join([]string{
		string(provider),
		strings.ToLower(strings.TrimSpace(meal.Name)),
		strings.ToLower(strings.TrimSpace(meal.Description)),
	}, "|")
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s%x", c.prefix, hash)
}

// Get returns the cached recipe, or false on a miss. Entries that no
// longer decode are evicted.
func (c *RecipeCache) Get(ctx context.Context, provider mealplan.ProviderID, meal mealplan.Meal) (mealplan.RecipeResponse, bool) {
	var recipe mealplan.RecipeResponse
	if c.client == nil {
		return recipe, false
	}

	data, err := c.client.Get(ctx, c.Key(provider, meal)).Bytes()
	if errors.Is(err, redis.Nil) {
		return recipe, false
	}
	if err != nil {
		slog.WarnContext(ctx, "Redis cache get failed", "error", err)
		return recipe, false
	}

	if err := json.Unmarshal(data, &recipe); err != nil {
		slog.WarnContext(ctx, "Failed to unmarshal cached recipe", "error", err)
		c.Delete(ctx, provider, meal)
		return mealplan.RecipeResponse{}, false
	}
	return recipe, true
}

// Set stores a validated recipe. Write failures are logged, not returned.
func (c *RecipeCache) Set(ctx context.Context, provider mealplan.ProviderID, meal mealplan.Meal, recipe mealplan.RecipeResponse) {
	if c.client == nil {
		return
	}

	data, err := json.Marshal(recipe)
	if err != nil {
		slog.WarnContext(ctx, "Failed to marshal recipe", "error", err)
		return
	}

	if err := c.client.Set(ctx, c.Key(provider, meal), data, c.ttl).Err(); err != nil {
		slog.WarnContext(ctx, "Redis cache set failed", "error", err)
	}
}

// Delete evicts a recipe from the cache.
func (c *RecipeCache) Delete(ctx context.Context, provider mealplan.ProviderID, meal mealplan.Meal) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, c.Key(provider, meal)).Err(); err != nil {
		slog.WarnContext(ctx, "Redis cache delete failed", "error", err)
	}
}
