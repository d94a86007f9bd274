package entities

// PageContent is the copy rendered around the action panel
type PageContent struct {
	Title       string                `yaml:"title"`
	Description string                `yaml:"description"`
	Brand       string                `yaml:"brand"`
	Profile     Profile               `yaml:"profile"`
	Services    []string              `yaml:"services"`
	Stats       []string              `yaml:"stats"`
	Nav         []Link                `yaml:"nav"`
	NavCTA      string                `yaml:"nav_cta"`
	StickyCTA   string                `yaml:"sticky_cta"`
	Tabs        []Tab                 `yaml:"tabs"`
	Forms       map[FormKind]FormCopy `yaml:"forms"`
}

// Profile is the relationship manager's hero block
type Profile struct {
	ImageURL     string `yaml:"image_url"`
	ImageAlt     string `yaml:"image_alt"`
	Headline     string `yaml:"headline"`
	Summary      string `yaml:"summary"`
	PrimaryCTA   Link   `yaml:"primary_cta"`
	SecondaryCTA Link   `yaml:"secondary_cta"`
}

// Link is a labelled anchor
type Link struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
}

// Option is a value of a closed selector field with its display label
type Option struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

// FormCopy is the text of one form: field labels, selector options, button
// captions and the confirmation banner
type FormCopy struct {
	Labels       map[string]string   `yaml:"labels"`
	Placeholders map[string]string   `yaml:"placeholders"`
	Options      map[string][]Option `yaml:"options"`
	Submit       string              `yaml:"submit"`
	Submitting   string              `yaml:"submitting"`
	Helper       string              `yaml:"helper"`
	Success      SuccessMessage      `yaml:"success"`
}

// SuccessMessage is one confirmation banner
type SuccessMessage struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}
