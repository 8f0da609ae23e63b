package models

// Indexing labels counted in StatsSnapshot.IndexingBreakdown.
const (
	IndexingScopus       = "Scopus"
	IndexingWebOfScience = "Web of Science"
	IndexingUGC          = "UGC"
	IndexingPeerReviewed = "Peer Reviewed"
)

// IndexingLabels lists the only indexing schemes the statistics report on.
var IndexingLabels = []string{
	IndexingScopus,
	IndexingWebOfScience,
	IndexingUGC,
	IndexingPeerReviewed,
}

// StatsSnapshot is the aggregate returned by GET /api/admin/stats.
type StatsSnapshot struct {
	Overview              StatsOverview         `json:"overview"`
	LocalTypeBreakdown    map[string]int        `json:"localTypeBreakdown"`
	SubjectBreakdown      map[string]int        `json:"subjectBreakdown"`
	UserRoleBreakdown     map[string]int        `json:"userRoleBreakdown"`
	IndexingBreakdown     map[string]int        `json:"indexingBreakdown"`
	ContentTypeComparison ContentTypeComparison `json:"contentTypeComparison"`
}

// StatsOverview holds the headline counters.
type StatsOverview struct {
	TotalLocalItems    int `json:"totalLocalItems"`
	TotalSubjects      int `json:"totalSubjects"`
	TotalTypes         int `json:"totalTypes"`
	TotalUsers         int `json:"totalUsers"`
	TotalLocalArticles int `json:"totalLocalArticles"`
	TotalLocalBooks    int `json:"totalLocalBooks"`
}

// ContentTypeComparison splits records into articles, books and the rest.
// Articles + Books + Other always equals the number of records.
type ContentTypeComparison struct {
	Articles int `json:"articles"`
	Books    int `json:"books"`
	Other    int `json:"other"`
}
