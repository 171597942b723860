package core

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// FilterAll disables a category or role filter.
const FilterAll = "all"

// Category classifies a project.
type Category string

const (
	CategoryDeFi           Category = "DeFi"
	CategoryNFT            Category = "NFT"
	CategoryGameFi         Category = "GameFi"
	CategoryInfrastructure Category = "Infrastructure"
	CategorySocial         Category = "Social"
	CategoryOther          Category = "Other"
)

// Categories lists every project category in display order.
var Categories = []Category{
	CategoryDeFi, CategoryNFT, CategoryGameFi, CategoryInfrastructure, CategorySocial, CategoryOther,
}

func (c Category) Valid() bool { return slices.Contains(Categories, c) }

// PersonRole is the community function of a person.
type PersonRole string

const (
	PersonDeveloper        PersonRole = "geliştirici"
	PersonContentCreator   PersonRole = "içerik-üretici"
	PersonInvestor         PersonRole = "yatırımcı"
	PersonCommunityManager PersonRole = "topluluk-yöneticisi"
	PersonResearcher       PersonRole = "araştırmacı"
	PersonDesigner         PersonRole = "tasarımcı"
	PersonMarketer         PersonRole = "pazarlama-uzmanı"
	PersonEntrepreneur     PersonRole = "girişimci"
	PersonEducator         PersonRole = "eğitmen"
	PersonAnalyst          PersonRole = "analiz-uzmanı"
)

// PersonRoles lists every person role in display order.
var PersonRoles = []PersonRole{
	PersonDeveloper, PersonContentCreator, PersonInvestor, PersonCommunityManager, PersonResearcher,
	PersonDesigner, PersonMarketer, PersonEntrepreneur, PersonEducator, PersonAnalyst,
}

func (r PersonRole) Valid() bool { return slices.Contains(PersonRoles, r) }

// SocialLinks holds optional profile links keyed by network.
type SocialLinks struct {
	X         string `json:"x,omitempty"`
	GitHub    string `json:"github,omitempty"`
	Discord   string `json:"discord,omitempty"`
	Telegram  string `json:"telegram,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Email     string `json:"email,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Website   string `json:"website,omitempty"`
	YouTube   string `json:"youtube,omitempty"`
	Medium    string `json:"medium,omitempty"`
}

// Project is a community startup listed in the directory.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    Category  `json:"category"`
	ImageURL    string    `json:"image_url,omitempty"`
	WebsiteURL  string    `json:"website_url,omitempty"`
	TwitterURL  string    `json:"twitter_url,omitempty"`
	GitHubURL   string    `json:"github_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProjectPatch lists the project fields to change; nil fields are left as is.
type ProjectPatch struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	Category    *Category `json:"category,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	WebsiteURL  *string   `json:"website_url,omitempty"`
	TwitterURL  *string   `json:"twitter_url,omitempty"`
	GitHubURL   *string   `json:"github_url,omitempty"`
}

// Apply copies the set fields of the patch onto p.
func (pp ProjectPatch) Apply(p *Project) {
	setIf(&p.Name, pp.Name)
	setIf(&p.Description, pp.Description)
	setIf(&p.Category, pp.Category)
	setIf(&p.ImageURL, pp.ImageURL)
	setIf(&p.WebsiteURL, pp.WebsiteURL)
	setIf(&p.TwitterURL, pp.TwitterURL)
	setIf(&p.GitHubURL, pp.GitHubURL)
}

// Person is a community member profile.
type Person struct {
	ID            string       `json:"id"`
	WalletAddress string       `json:"wallet_address"`
	Name          string       `json:"name"`
	Bio           string       `json:"bio,omitempty"`
	Role          PersonRole   `json:"role"`
	Location      string       `json:"location,omitempty"`
	AvatarURL     string       `json:"avatar_url,omitempty"`
	SocialLinks   *SocialLinks `json:"social_links,omitempty"`
	Skills        []string     `json:"skills,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     *time.Time   `json:"updated_at,omitempty"`
}

// PersonPatch lists the person fields to change; nil fields are left as is.
type PersonPatch struct {
	Name        *string      `json:"name,omitempty"`
	Bio         *string      `json:"bio,omitempty"`
	Role        *PersonRole  `json:"role,omitempty"`
	Location    *string      `json:"location,omitempty"`
	AvatarURL   *string      `json:"avatar_url,omitempty"`
	SocialLinks *SocialLinks `json:"social_links,omitempty"`
	Skills      *[]string    `json:"skills,omitempty"`
}

// Apply copies the set fields of the patch onto p.
func (pp PersonPatch) Apply(p *Person) {
	setIf(&p.Name, pp.Name)
	setIf(&p.Bio, pp.Bio)
	setIf(&p.Role, pp.Role)
	setIf(&p.Location, pp.Location)
	setIf(&p.AvatarURL, pp.AvatarURL)
	if pp.SocialLinks != nil {
		links := *pp.SocialLinks
		p.SocialLinks = &links
	}
	if pp.Skills != nil {
		p.Skills = slices.Clone(*pp.Skills)
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// ProjectFilter narrows a project listing. Empty or FilterAll category matches every project.
type ProjectFilter struct {
	Category string
	Term     string
}

// PersonFilter narrows a people listing. Empty or FilterAll role matches every person.
type PersonFilter struct {
	Role string
	Term string
}

// Stats is the directory summary shown on the landing page.
type Stats struct {
	TotalProjects  int `json:"total_projects"`
	TotalPeople    int `json:"total_people"`
	TotalBuilders  int `json:"total_builders"`
	TotalCreators  int `json:"total_creators"`
	TotalInvestors int `json:"total_investors"`
	TotalDegens    int `json:"total_degens"`
}

// Share is one bucket of a breakdown with its percentage of the total.
type Share struct {
	Key     string          `json:"key"`
	Count   int             `json:"count"`
	Percent decimal.Decimal `json:"percent"`
}

// Breakdown distributes a total over keyed buckets.
type Breakdown struct {
	Total  int     `json:"total"`
	Shares []Share `json:"shares"`
}

// NewBreakdown builds a breakdown for counts listed in keys order. Percentages are
// rounded to two decimals; keys with zero count are kept.
func NewBreakdown(keys []string, counts map[string]int) Breakdown {
	b := Breakdown{Shares: make([]Share, 0, len(keys))}
	for _, k := range keys {
		b.Total += counts[k]
	}
	for _, k := range keys {
		pct := decimal.Zero
		if b.Total > 0 {
			pct = decimal.NewFromInt(int64(counts[k])).
				Mul(decimal.NewFromInt(100)).
				Div(decimal.NewFromInt(int64(b.Total))).
				Round(2)
		}
		b.Shares = append(b.Shares, Share{Key: k, Count: counts[k], Percent: pct})
	}
	return b
}
