package entities

import "fmt"

const (
	descriptionChecks = 7
	legalChecks       = 2
	maintenanceChecks = 3
)

// Rating is the checklist completeness score of a component.
type Rating struct {
	Rating    int      `json:"rating"`
	MaxRating int      `json:"maxRating"`
	Results   []string `json:"results"`
}

type ratingCheck struct {
	label string
	value string
	set   bool
}

func (r *Rating) check(c ratingCheck) {
	r.MaxRating++
	if !c.set {
		r.Results = append(r.Results, fmt.Sprintf("Cannot rate the %s because it is not set", c.label))
		return
	}
	r.Rating++
	if c.value != "" {
		r.Results = append(r.Results, fmt.Sprintf("The %s: %s rated", c.label, c.value))
		return
	}
	r.Results = append(r.Results, fmt.Sprintf("The %s is rated", c.label))
}

func (r *Rating) missing(label string, checks int) {
	r.MaxRating += checks
	r.Results = append(r.Results, fmt.Sprintf("Cannot rate the %s because it is not set", label))
}

func text(label, value string) ratingCheck {
	return ratingCheck{label: label, value: value, set: value != ""}
}

func list(label string, values []string) ratingCheck {
	return ratingCheck{label: label, set: len(values) > 0}
}

// ScoreComponent computes the rating of component. The order of the checks is fixed.
func ScoreComponent(component Component) Rating {
	rating := Rating{Results: []string{}}

	logo := ""
	if component.Logo != nil {
		logo = *component.Logo
	}

	rating.check(text("name", component.Name))
	rating.check(ratingCheck{label: "url", set: component.URL != ""})
	rating.check(text("landingURL", component.LandingURL))
	rating.check(text("softwareVersion", component.SoftwareVersion))
	rating.check(text("releaseDate", component.ReleaseDate))
	rating.check(text("logo", logo))
	rating.check(text("roadmap", component.Roadmap))
	rating.check(text("developmentStatus", component.DevelopmentStatus))
	rating.check(text("softwareType", component.SoftwareType))
	rating.check(list("platforms", component.Platforms))
	rating.check(list("categories", component.Categories))
	rating.check(list("usedBy", component.UsedBy))
	rating.check(list("isBasedOn", component.IsBasedOn))

	if d := component.Description; d != nil {
		rating.check(text("localisedName", d.LocalisedName))
		rating.check(text("shortDescription", d.ShortDescription))
		rating.check(text("longDescription", d.LongDescription))
		rating.check(text("apiDocumentation", d.APIDocumentation))
		rating.check(list("features", d.Features))
		rating.check(list("screenshots", d.Screenshots))
		rating.check(list("videos", d.Videos))
	} else {
		rating.missing("description", descriptionChecks)
	}

	if l := component.Legal; l != nil {
		rating.check(text("license", l.License))
		rating.check(ratingCheck{label: "mainCopyrightOwner", set: l.MainCopyrightOwner != ""})
	} else {
		rating.missing("legal", legalChecks)
	}

	if m := component.Maintenance; m != nil {
		rating.check(text("maintenance type", m.Type))
		rating.check(list("contractors", m.Contractors))
		rating.check(list("contacts", m.Contacts))
	} else {
		rating.missing("maintenance", maintenanceChecks)
	}

	return rating
}
