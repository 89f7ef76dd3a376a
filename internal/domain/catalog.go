package domain

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

type Category struct {
	ID   int64         `json:"id"`
	Name LocalizedText `json:"name"`
}

type Area struct {
	ID     int64         `json:"id"`
	CityID int64         `json:"-"`
	Name   LocalizedText `json:"name"`
}

type City struct {
	ID    int64         `json:"id"`
	Name  LocalizedText `json:"name"`
	Areas []*Area       `json:"areas"`
}

// Catalog is the static reference data: categories, cities and their areas.
type Catalog struct {
	Categories []*Category `json:"categories"`
	Cities     []*City     `json:"cities"`

	categoryByID map[int64]*Category
	cityByID     map[int64]*City
	areaByID     map[int64]*Area
}

//go:embed data/catalog.json
var catalogJSON []byte

// LoadCatalog parses the embedded reference data and indexes it.
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(catalogJSON)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	c.categoryByID = make(map[int64]*Category, len(c.Categories))
	c.cityByID = make(map[int64]*City, len(c.Cities))
	c.areaByID = make(map[int64]*Area)

	for _, cat := range c.Categories {
		if _, dup := c.categoryByID[cat.ID]; dup {
			return nil, fmt.Errorf("duplicate category id %d", cat.ID)
		}
		c.categoryByID[cat.ID] = cat
	}
	for _, city := range c.Cities {
		if _, dup := c.cityByID[city.ID]; dup {
			return nil, fmt.Errorf("duplicate city id %d", city.ID)
		}
		c.cityByID[city.ID] = city
		for _, area := range city.Areas {
			if _, dup := c.areaByID[area.ID]; dup {
				return nil, fmt.Errorf("duplicate area id %d", area.ID)
			}
			area.CityID = city.ID
			c.areaByID[area.ID] = area
		}
	}

	return &c, nil
}

func (c *Catalog) Category(id int64) *Category {
	return c.categoryByID[id]
}

func (c *Catalog) City(id int64) *City {
	return c.cityByID[id]
}

func (c *Catalog) Area(id int64) *Area {
	return c.areaByID[id]
}

// AreasOf returns the areas of a city, or nil for an unknown city.
func (c *Catalog) AreasOf(cityID int64) []*Area {
	city := c.cityByID[cityID]
	if city == nil {
		return nil
	}
	return city.Areas
}

// CategoryName returns the localized category name, or "#id" when unknown.
func (c *Catalog) CategoryName(id int64, l Locale) string {
	if cat := c.Category(id); cat != nil {
		return cat.Name.In(l)
	}
	return fmt.Sprintf("#%d", id)
}

func (c *Catalog) CityName(id int64, l Locale) string {
	if city := c.City(id); city != nil {
		return city.Name.In(l)
	}
	return fmt.Sprintf("#%d", id)
}

func (c *Catalog) AreaName(id int64, l Locale) string {
	if area := c.Area(id); area != nil {
		return area.Name.In(l)
	}
	return fmt.Sprintf("#%d", id)
}

// ValidateLocation checks that every area belongs to the city.
func (c *Catalog) ValidateLocation(cityID int64, areaIDs []int64) error {
	if c.City(cityID) == nil {
		return fmt.Errorf("unknown city %d", cityID)
	}
	for _, id := range areaIDs {
		area := c.Area(id)
		if area == nil {
			return fmt.Errorf("unknown area %d", id)
		}
		if area.CityID != cityID {
			return fmt.Errorf("area %d is not in city %d", id, cityID)
		}
	}
	return nil
}
