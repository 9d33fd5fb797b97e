package dto

import "github.com/jamieblog/catalog-service/internal/model"

type SearchResult struct {
	Posts      []*model.PostView `json:"posts"`
	TotalCount int64             `json:"totalCount"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}

type EndorsementStatusResponse struct {
	Endorsement *bool `json:"endorsement"`
}
