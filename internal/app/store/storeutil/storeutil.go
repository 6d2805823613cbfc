package storeutil

import "go.mongodb.org/mongo-driver/mongo/options"

// Default paging values used when a request omits them.
const (
	DefaultPage  int64 = 1
	DefaultLimit int64 = 10
	MaxLimit     int64 = 100
)

// Skip returns the number of documents to skip for a 1-based page.
func Skip(limit, page int64) int64 {
	return (page - 1) * limit
}

// TotalPages returns ceil(total/limit). A zero total yields zero pages.
func TotalPages(total, limit int64) int64 {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// Paginate returns *options.FindOptions with skip/limit given a 1-based page.
func Paginate(limit, page int64) *options.FindOptions {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if page <= 0 {
		page = DefaultPage
	}
	return options.Find().SetLimit(limit).SetSkip(Skip(limit, page))
}
