package services

import (
	"strings"

	"library-api/models"
)

const (
	unknownBucket = "Unknown"
	defaultRole   = "user"
)

var (
	articleTypeKeywords = []string{"research paper", "article", "conference proceeding", "thesis", "dissertation"}
	bookTypeKeywords    = []string{"book", "magazine", "manuscript"}
)

// ContentClass is the articles-vs-books bucket of a record type.
type ContentClass int

const (
	ContentOther ContentClass = iota
	ContentArticle
	ContentBook
)

// ClassifyType buckets a record type by case-insensitive substring match.
// Article keywords are checked first, so a type matching both lists (e.g.
// "Book Review Article") is an article.
func ClassifyType(recordType string) ContentClass {
	lower := strings.ToLower(recordType)
	if containsAny(lower, articleTypeKeywords) {
		return ContentArticle
	}
	if containsAny(lower, bookTypeKeywords) {
		return ContentBook
	}
	return ContentOther
}

// AggregateStats builds a snapshot from one catalog read. It has no side effects.
func AggregateStats(data *models.CatalogData) *models.StatsSnapshot {
	snapshot := &models.StatsSnapshot{
		LocalTypeBreakdown: make(map[string]int),
		SubjectBreakdown:   make(map[string]int),
		UserRoleBreakdown:  make(map[string]int),
		IndexingBreakdown:  make(map[string]int, len(models.IndexingLabels)),
	}
	for _, label := range models.IndexingLabels {
		snapshot.IndexingBreakdown[label] = 0
	}

	var articles, books int
	for _, record := range data.Records {
		snapshot.LocalTypeBreakdown[orDefault(record.Type, unknownBucket)]++
		snapshot.SubjectBreakdown[orDefault(record.SubjectName, unknownBucket)]++

		for _, label := range record.Indexing {
			if _, tracked := snapshot.IndexingBreakdown[label]; tracked {
				snapshot.IndexingBreakdown[label]++
			}
		}

		switch ClassifyType(record.Type) {
		case ContentArticle:
			articles++
		case ContentBook:
			books++
		}
	}

	for _, user := range data.Users {
		snapshot.UserRoleBreakdown[orDefault(user.Role, defaultRole)]++
	}

	total := len(data.Records)
	snapshot.Overview = models.StatsOverview{
		TotalLocalItems:    total,
		TotalSubjects:      len(data.Subjects),
		TotalTypes:         len(data.Types),
		TotalUsers:         len(data.Users),
		TotalLocalArticles: articles,
		TotalLocalBooks:    books,
	}
	snapshot.ContentTypeComparison = models.ContentTypeComparison{
		Articles: articles,
		Books:    books,
		Other:    total - articles - books,
	}
	return snapshot
}

func containsAny(s string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
