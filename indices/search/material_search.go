package search

import (
	"construxflow/authority"
	"construxflow/bizerror"
	"construxflow/client/es"
	"construxflow/indices"
	"construxflow/session"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

var (
	SearchMaterialDocumentsFunc = SearchMaterialDocuments

	PathMaterialDocuments = "/v1/material-documents"
)

// MaxHits caps a search response
const MaxHits = 200

// SearchMaterialDocuments full text search on material names, in stock only, cheapest first
func SearchMaterialDocuments(q string, s *session.Session) ([]indices.MaterialDocument, error) {
	if !s.Perms.HasAnyRole(authority.RoleContractor, authority.RoleAdmin) {
		return nil, bizerror.ErrForbidden
	}

	filters := []es.H{{"range": es.H{"quantity": es.H{"gt": 0}}}}
	if q = strings.TrimSpace(q); q != "" {
		filters = append(filters, es.H{"match": es.H{"materialName": es.H{"query": q, "operator": "AND", "fuzziness": "AUTO"}}})
	}
	query := es.H{
		"size":  MaxHits,
		"query": es.H{"bool": es.H{"filter": filters}},
		"sort":  []es.H{{"pricePerUnit": es.H{"order": "asc"}}},
	}
	r, err := es.SearchFunc(indices.MaterialIndexName, query, s)
	if err != nil {
		return nil, err
	}

	docs := make([]indices.MaterialDocument, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		doc := indices.MaterialDocument{}
		if err := json.Unmarshal([]byte(hit.Source), &doc); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func RegisterMaterialSearchRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	r.Group(PathMaterialDocuments, middleWares...).GET("", handleSearchMaterialDocuments)
}

func handleSearchMaterialDocuments(c *gin.Context) {
	result, err := SearchMaterialDocumentsFunc(c.Query("q"), session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, result)
}
