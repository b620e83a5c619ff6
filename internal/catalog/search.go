package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"adoption-workers/internal/common/logger"
	"adoption-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var ErrSearchFailed = errors.New("search failed")

const defaultSearchLimit = 100

// Filter narrows candidate search. Empty fields do not filter.
type Filter struct {
	Sizes            []models.SizeClass   `json:"sizes,omitempty"`
	Energy           []models.EnergyClass `json:"energy,omitempty"`
	GoodWithChildren *bool                `json:"goodWithChildren,omitempty"`
	GoodWithCats     *bool                `json:"goodWithCats,omitempty"`
	GoodWithDogs     *bool                `json:"goodWithDogs,omitempty"`
	Limit            int                  `json:"limit,omitempty"`
}

// Search queries the adoptable animals index.
type Search struct {
	es     *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewSearch(es *elasticsearch.Client, index string, log logger.Logger) *Search {
	return &Search{
		es:     es,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"component": "catalog-search", "index": index}),
	}
}

func (s *Search) Index() string {
	return s.index
}

// FindAdoptable returns available animals matching f, best match first.
func (s *Search) FindAdoptable(ctx context.Context, f Filter) ([]models.AnimalProfile, error) {
	body, err := json.Marshal(buildAdoptableQuery(f))
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	size := f.Limit
	if size <= 0 {
		size = defaultSearchLimit
	}
	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(body),
		Size:  &size,
	}

	res, err := req.Do(ctx, s.es)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrSearchFailed, res.String())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string               `json:"_id"`
				Source models.AnimalProfile `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", ErrSearchFailed, err)
	}

	animals := make([]models.AnimalProfile, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		a := hit.Source
		if a.ID == "" {
			a.ID = hit.ID
		}
		animals = append(animals, a)
	}

	s.logger.Debug("candidate search finished", map[string]interface{}{"hits": len(animals)})
	return animals, nil
}

func buildAdoptableQuery(f Filter) map[string]interface{} {
	filters := []interface{}{
		map[string]interface{}{"term": map[string]interface{}{"status": "AVAILABLE"}},
	}
	if len(f.Sizes) > 0 {
		filters = append(filters, map[string]interface{}{"terms": map[string]interface{}{"size": f.Sizes}})
	}
	if len(f.Energy) > 0 {
		filters = append(filters, map[string]interface{}{"terms": map[string]interface{}{"energy": f.Energy}})
	}
	flags := []struct {
		field string
		value *bool
	}{
		{"goodWithChildren", f.GoodWithChildren},
		{"goodWithCats", f.GoodWithCats},
		{"goodWithDogs", f.GoodWithDogs},
	}
	for _, flag := range flags {
		if flag.value != nil {
			filters = append(filters, map[string]interface{}{"term": map[string]interface{}{flag.field: *flag.value}})
		}
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"filter": filters},
		},
		"sort": []interface{}{
			map[string]interface{}{"_id": "asc"},
		},
	}
}
