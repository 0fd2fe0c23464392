package model

// Company is the root entity: a startup being scouted.
type Company struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Website  string   `json:"website"`
	Industry string   `json:"industry"`
	Location string   `json:"location"`
	Funding  string   `json:"funding"`
	Tags     []string `json:"tags"`
}

// CompanyPatch carries a partial update; nil fields are left unchanged.
type CompanyPatch struct {
	Name     *string   `json:"name,omitempty"`
	Website  *string   `json:"website,omitempty"`
	Industry *string   `json:"industry,omitempty"`
	Location *string   `json:"location,omitempty"`
	Funding  *string   `json:"funding,omitempty"`
	Tags     *[]string `json:"tags,omitempty"`
}

// Apply overlays the patch onto a company.
func (p CompanyPatch) Apply(c *Company) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Website != nil {
		c.Website = *p.Website
	}
	if p.Industry != nil {
		c.Industry = *p.Industry
	}
	if p.Location != nil {
		c.Location = *p.Location
	}
	if p.Funding != nil {
		c.Funding = *p.Funding
	}
	if p.Tags != nil {
		c.Tags = *p.Tags
	}
}
