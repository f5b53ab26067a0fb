package organizations

import (
	"context"
	"fmt"
	"strings"

	"github.com/orgs-directory/backend/internal/activities"
	"github.com/orgs-directory/backend/internal/models"
)

// memStore is an in-memory Store that evaluates Query the way the SQL does.
type memStore struct {
	buildings map[int64]models.Building
	orgs      []models.Organization
	err       error
	queries   []Query
}

func (m *memStore) match(o models.Organization, q Query) bool {
	if q.Name != "" && !strings.Contains(strings.ToLower(o.Name), strings.ToLower(q.Name)) {
		return false
	}
	if q.BuildingID != nil && o.BuildingID != *q.BuildingID {
		return false
	}
	if q.ActivityIDs != nil {
		found := false
		for _, a := range o.Activities {
			for _, id := range q.ActivityIDs {
				if a.ID == id {
					found = true
				}
			}
		}
		if !found {
			return false
		}
	}
	if q.Bounds != nil {
		b := m.buildings[o.BuildingID]
		if !q.Bounds.Contains(b.Latitude, b.Longitude) {
			return false
		}
	}
	return true
}

func (m *memStore) FindPage(_ context.Context, q Query, page Page) ([]models.Organization, int, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	m.queries = append(m.queries, q)
	matched := m.matching(q)
	return window(matched, page), len(matched), nil
}

func (m *memStore) Find(_ context.Context, q Query, page Page) ([]models.Organization, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.queries = append(m.queries, q)
	return window(m.matching(q), page), nil
}

func (m *memStore) matching(q Query) []models.Organization {
	var matched []models.Organization
	for _, o := range m.orgs {
		if m.match(o, q) {
			matched = append(matched, o)
		}
	}
	return matched
}

func window(matched []models.Organization, page Page) []models.Organization {
	if page.Skip >= len(matched) {
		return []models.Organization{}
	}
	matched = matched[page.Skip:]
	if page.Limit >= 0 && page.Limit < len(matched) {
		matched = matched[:page.Limit]
	}
	return matched
}

func (m *memStore) GetByID(_ context.Context, id int64) (*models.Organization, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, o := range m.orgs {
		if o.ID == id {
			return &o, nil
		}
	}
	return nil, fmt.Errorf("organization %d: %w", id, models.ErrNotFound)
}

func pid(id int64) *int64 { return &id }

const (
	actFood int64 = iota + 1
	actCars
	actMeat
	actDairy
	actTrucks
	actPassenger
	actParts
	actAccessories
)

func seedActivities() *activities.Forest {
	return activities.NewForest([]models.Activity{
		{ID: actFood, Name: "Еда"},
		{ID: actCars, Name: "Автомобили"},
		{ID: actMeat, Name: "Мясная продукция", ParentID: pid(actFood)},
		{ID: actDairy, Name: "Молочная продукция", ParentID: pid(actFood)},
		{ID: actTrucks, Name: "Грузовые", ParentID: pid(actCars)},
		{ID: actPassenger, Name: "Легковые", ParentID: pid(actCars)},
		{ID: actParts, Name: "Запчасти", ParentID: pid(actPassenger)},
		{ID: actAccessories, Name: "Аксессуары", ParentID: pid(actPassenger)},
	})
}

// seedStore mirrors the reference dataset plus a far-away dairy shop in Saint Petersburg.
func seedStore() *memStore {
	return &memStore{
		buildings: map[int64]models.Building{
			1: {ID: 1, Address: "г. Москва, ул. Ленина 1, офис 3", Latitude: 55.7558, Longitude: 37.6176},
			2: {ID: 2, Address: "г. Москва, ул. Тверская 10", Latitude: 55.7650, Longitude: 37.6050},
			3: {ID: 3, Address: "г. Санкт-Петербург, Невский пр. 1", Latitude: 59.9343, Longitude: 30.3351},
		},
		orgs: []models.Organization{
			{
				ID: 1, Name: "ООО Рога и Копыта", BuildingID: 1,
				Phones:     []models.Phone{{ID: 1, Number: "2-222-222"}, {ID: 2, Number: "8-923-666-13-13"}},
				Activities: []models.Activity{{ID: actMeat}, {ID: actDairy}},
			},
			{
				ID: 2, Name: "АвтоМир", BuildingID: 2,
				Phones:     []models.Phone{{ID: 3, Number: "3-333-333"}},
				Activities: []models.Activity{{ID: actParts}, {ID: actAccessories}},
			},
			{
				ID: 3, Name: "Молочный двор", BuildingID: 3,
				Activities: []models.Activity{{ID: actDairy}},
			},
		},
	}
}
