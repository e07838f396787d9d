package search

import (
	"encoding/json"
	"fmt"
	"strings"

	"fieldflow/client/es"
	"fieldflow/domain/project"
	"fieldflow/indices"
	"fieldflow/session"
)

var (
	SearchProjectsFunc = SearchProjects
)

type ProjectSearchQuery struct {
	Keyword        string `form:"q"`
	ContractorName string `form:"contractor_name"`
	Status         string `form:"status"`
}

// SearchProjects queries the project index; workers and contractors are
// pinned to their own records like the database queries are.
func SearchProjects(q ProjectSearchQuery, s *session.Session) ([]project.Project, error) {
	if s.IsContractor() {
		q.ContractorName = s.DisplayName()
	}

	filters := make([]es.H, 0, 4)
	if q.Keyword != "" {
		filters = append(filters, es.H{"match": es.H{"project_name": es.H{"query": q.Keyword, "operator": "AND"}}})
	}
	if q.ContractorName != "" {
		filters = append(filters, es.H{"term": es.H{"contractor_name.keyword": q.ContractorName}})
	}
	if s.IsWorker() {
		filters = append(filters, es.H{"term": es.H{"worker_name.keyword": s.DisplayName()}})
	}
	if q.Status != "" {
		filters = append(filters, es.H{"term": es.H{"status.keyword": q.Status}})
	}

	root := es.H{"bool": es.H{"filter": filters}}
	sorts := []es.H{{"id": es.H{"order": "asc"}}}
	r, err := es.SearchFunc(indices.ProjectIndexName, es.H{"size": 10000, "query": root, "sort": sorts}, s)
	if err != nil {
		return nil, err
	}

	records := make([]project.Project, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		doc := indices.ProjectDocument{}
		if err := json.NewDecoder(strings.NewReader(string(hit.Source))).Decode(&doc); err != nil {
			return nil, fmt.Errorf(string(hit.Source))
		}
		records = append(records, doc.Project)
	}
	return records, nil
}
