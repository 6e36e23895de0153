package core

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kherrera/gitattrib/internal/contract"
	"github.com/kherrera/gitattrib/schema"
)

// currentCacheVersion defines the version of the cache schema
const currentCacheVersion = 1

// cacheMaxAge bounds how long a cached result stays valid. The repo hash
// already invalidates on new commits, so this only guards clock-relative
// inputs like mailmap edits.
const cacheMaxAge = 7 * 24 * time.Hour

// cachedOwnership wraps computeOwnership with the result cache.
func cachedOwnership(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) (*schema.OwnershipResult, error) {
	store := mgr.GetResultStore()
	if store == nil {
		return computeOwnership(ctx, cfg, client)
	}

	key := generateCacheKey(ctx, cfg, client, "ownership",
		fmt.Sprintf("%v:%v", cfg.Blame, cfg.UseMailmap))

	var cached schema.OwnershipResult
	if checkCacheHit(store, key, &cached) {
		return &cached, nil
	}

	result, err := computeOwnership(ctx, cfg, client)
	if err != nil {
		return nil, err
	}
	storeResult(store, key, result)
	return result, nil
}

// cachedCollectCommits wraps collectCommits with the result cache.
func cachedCollectCommits(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) ([]schema.CommitRecord, []string, error) {
	store := mgr.GetResultStore()
	if store == nil {
		return collectCommits(ctx, cfg, client)
	}

	key := generateCacheKey(ctx, cfg, client, "commits",
		fmt.Sprintf("%d:%d:%s:%v", cfg.Since.Unix(), cfg.Until.Unix(), cfg.Branch, cfg.IncludeMerges))

	var cached struct {
		Commits  []schema.CommitRecord `json:"commits"`
		Warnings []string              `json:"warnings"`
	}
	if checkCacheHit(store, key, &cached) {
		return cached.Commits, cached.Warnings, nil
	}

	commits, warnings, err := collectCommits(ctx, cfg, client)
	if err != nil {
		return nil, nil, err
	}
	cached.Commits = commits
	cached.Warnings = warnings
	storeResult(store, key, &cached)
	return commits, warnings, nil
}

// checkCacheHit attempts to retrieve and validate a cached result.
func checkCacheHit(store contract.CacheStore, key string, target any) bool {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return false // Cache miss
	}
	if version != currentCacheVersion {
		return false
	}
	if time.Since(time.Unix(ts, 0)) > cacheMaxAge {
		return false
	}
	return json.Unmarshal(data, target) == nil
}

// storeResult marshals and stores a computed result, best effort.
func storeResult(store contract.CacheStore, key string, result any) {
	if data, err := json.Marshal(result); err == nil {
		_ = store.Set(key, data, currentCacheVersion, time.Now().Unix())
	}
}

// generateCacheKey creates a unique key based on the operation and its
// parameters. The repo hash invalidates the cache when HEAD moves.
func generateCacheKey(ctx context.Context, cfg *contract.Config, client contract.GitClient, op, params string) string {
	repoHash, err := client.GetRepoHash(ctx, cfg.RepoPath)
	if err != nil {
		repoHash = ""
	}
	key := fmt.Sprintf("%s:%s:%s:%s", op, cfg.RepoPath, params, repoHash)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}
