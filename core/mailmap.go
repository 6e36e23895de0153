package core

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/kherrera/gitattrib/internal/contract"
	"github.com/kherrera/gitattrib/schema"
)

// canonicalizeOwnership folds blame tallies for identities that the
// repository mailmap maps to the same canonical contact. One batched
// subprocess call resolves every distinct identity.
func canonicalizeOwnership(ctx context.Context, cfg *contract.Config, client contract.GitClient, merged map[schema.AuthorKey]int) map[schema.AuthorKey]int {
	keys := make([]schema.AuthorKey, 0, len(merged))
	for key := range merged {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Name != keys[j].Name {
			return keys[i].Name < keys[j].Name
		}
		return keys[i].Email < keys[j].Email
	})

	contacts := make([]string, len(keys))
	for i, key := range keys {
		contacts[i] = fmt.Sprintf("%s <%s>", key.Name, key.Email)
	}

	resolved, err := client.CheckMailmap(ctx, cfg.RepoPath, contacts)
	if err != nil {
		// Canonicalization is best effort. Raw identities are still correct.
		contract.LogWarn("mailmap resolution failed", err)
		return merged
	}

	canonical := make(map[schema.AuthorKey]int, len(merged))
	for i, key := range keys {
		canonical[parseContact(resolved[i], key)] += merged[key]
	}
	return canonical
}

// parseContact splits a "Name <email>" line back into an AuthorKey,
// falling back to the original key on malformed output.
func parseContact(contact string, fallback schema.AuthorKey) schema.AuthorKey {
	open := strings.LastIndex(contact, "<")
	close_ := strings.LastIndex(contact, ">")
	if open < 0 || close_ < open {
		return fallback
	}
	name := strings.TrimSpace(contact[:open])
	email := schema.NormalizeEmail(contact[open+1 : close_])
	if name == "" {
		name = fallback.Name
	}
	return schema.AuthorKey{Name: name, Email: email}
}
