package opensearch

import "github.com/papercomputeco/memseed/pkg/search"

// indexSettings is the request body for creating the index.
type indexSettings struct {
	Settings indexShardSettings `json:"settings"`
	Mappings indexMappings      `json:"mappings"`
}

type indexShardSettings struct {
	NumberOfShards   int `json:"number_of_shards"`
	NumberOfReplicas int `json:"number_of_replicas"`
}

type indexMappings struct {
	Properties map[string]fieldMapping `json:"properties"`
}

type fieldMapping struct {
	Type     string `json:"type"`
	Analyzer string `json:"analyzer,omitempty"`
}

// memoryMapping is the single-shard, zero-replica layout memories are stored in.
func memoryMapping() indexSettings {
	return indexSettings{
		Settings: indexShardSettings{NumberOfShards: 1, NumberOfReplicas: 0},
		Mappings: indexMappings{Properties: map[string]fieldMapping{
			"id":               {Type: "keyword"},
			"user_id":          {Type: "keyword"},
			"content":          {Type: "text", Analyzer: "standard"},
			"summary":          {Type: "text"},
			"importance_score": {Type: "float"},
			"tags":             {Type: "keyword"},
			"created_at":       {Type: "date"},
			"updated_at":       {Type: "date"},
		}},
	}
}

// searchRequest is the request body for _search.
type searchRequest struct {
	Size  int         `json:"size"`
	Query searchQuery `json:"query"`
}

type searchQuery struct {
	MultiMatch multiMatch `json:"multi_match"`
}

type multiMatch struct {
	Query  string   `json:"query"`
	Fields []string `json:"fields"`
}

// searchResponse is the response from _search.
type searchResponse struct {
	Hits struct {
		Hits []searchHit `json:"hits"`
	} `json:"hits"`
}

type searchHit struct {
	ID     string          `json:"_id"`
	Score  float64         `json:"_score"`
	Source search.Document `json:"_source"`
}

// countResponse is the response from _count.
type countResponse struct {
	Count int64 `json:"count"`
}
