package redis

import (
	"strconv"
	"strings"
)

// Cache keys are scoped by tenant so that a mutation in one company never
// evicts another company's entries.
const (
	scopeArticles   = "articles"
	scopeStatistics = "statistics"
	scopeSMS        = "sms"
)

func join(parts ...string) string {
	return strings.Join(parts, ":")
}

// ArticlesListKey caches the full article list of a tenant.
func ArticlesListKey(tenant string) string { return join(tenant, scopeArticles, "list") }

// ArticlesQuarantineKey caches the quarantined-article list of a tenant.
func ArticlesQuarantineKey(tenant string) string { return join(tenant, scopeArticles, "quarantine") }

// ArticleKey caches a single article.
func ArticleKey(tenant string, id int64) string {
	return join(tenant, scopeArticles, strconv.FormatInt(id, 10))
}

// ArticleScope lists every key touched by a create or delete of article id.
// A zero id skips the per-article key.
func ArticleScope(tenant string, id int64) []string {
	keys := []string{ArticlesListKey(tenant), ArticlesQuarantineKey(tenant)}
	if id > 0 {
		keys = append(keys, ArticleKey(tenant, id))
	}
	return keys
}

// StatisticsKey caches a statistics payload for a kind and date range.
func StatisticsKey(tenant, kind, rangeKey string) string {
	return join(tenant, scopeStatistics, kind, rangeKey)
}

// ReportKey caches a safety report.
func ReportKey(tenant string, id int64) string {
	return join(tenant, scopeSMS, "report", strconv.FormatInt(id, 10))
}

//Personal.AI order the ending
