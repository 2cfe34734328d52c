// Package mock synthesizes plausible placeholder articles. It is the
// unconditional last resort of the acquisition pipeline and never fails.
package mock

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/practicedash/newswire/internal/database"
)

var (
	dentalCategories    = []string{"Technology", "Business", "Clinical", "Education", "Research", "Regulation"}
	aestheticCategories = []string{"Technology", "Business", "Treatments", "Skincare", "Wellness", "Trends"}

	sources = []string{"DentistryToday", "MedicalNews", "HealthInsider", "IndustryWeekly", "TechMedica", "ClinicalJournal"}

	titleTemplates = []string{
		"New [TECH] Revolutionizes [INDUSTRY] Industry",
		"Study Shows [PERCENTAGE]% Increase in [TREATMENT] Effectiveness",
		"Leading [INDUSTRY] Companies Announce Partnership",
		"[COMPANY] Launches Innovative [PRODUCT] for [INDUSTRY] Professionals",
		"Experts Predict [INDUSTRY] Market Growth of [PERCENTAGE]% by 2026",
		"Breakthrough in [TREATMENT] Technology Promises Better Patient Outcomes",
		"Regulatory Changes Impact [INDUSTRY] Practices Nationwide",
		"Survey Reveals Top [INDUSTRY] Trends for 2025",
		"[COMPANY] Acquires [COMPANY] in $[AMOUNT]M Deal",
		"New Research Highlights Benefits of [TREATMENT] Approach",
	}

	contentTemplates = []string{
		"A recent development in [INDUSTRY] technology has shown promising results in clinical trials. Experts believe this could lead to significant improvements in patient care and treatment outcomes. Industry leaders are already investing in this technology, with market analysts predicting widespread adoption within the next two years.",
		"Market research indicates a growing trend in [INDUSTRY] practices, with more professionals adopting new techniques and technologies. Patient satisfaction rates have increased by [PERCENTAGE]%, and treatment times have decreased by [PERCENTAGE]%. This shift represents a significant evolution in how [INDUSTRY] care is delivered.",
		"Regulatory bodies have announced new guidelines for [INDUSTRY] practices, focusing on patient safety and treatment efficacy. These changes will require practitioners to update their protocols and potentially invest in new equipment. Industry associations are providing resources to help professionals adapt to these new requirements.",
		"A landmark study published in the Journal of [INDUSTRY] Medicine has revealed new insights into treatment methodologies. The research, conducted over a three-year period with [NUMBER] participants, demonstrates that innovative approaches can yield better long-term results for patients while reducing recovery time and complications.",
		"Industry leaders gathered at the annual [INDUSTRY] Conference to discuss emerging trends and challenges. Key topics included technological innovation, patient experience enhancement, and sustainable practice management. Attendees were particularly interested in new digital solutions that streamline administrative processes while improving clinical outcomes.",
	}

	technologies     = []string{"AI", "Machine Learning", "Digital Scanning", "Robotics", "Cloud Computing"}
	dentalTreatments = []string{"Implant", "Orthodontic", "Periodontal", "Endodontic", "Cosmetic"}
	otherTreatments  = []string{"Laser", "Injectable", "Surgical", "Non-invasive", "Dermal"}
	companies        = []string{"MediTech", "HealthPlus", "InnovaCare", "NextGen", "PrimeSolutions"}
	products         = []string{"System", "Solution", "Platform", "Device", "Software"}
	authors          = []string{"Dr. John Smith", "Sarah Johnson", "Michael Chen", "Emily Rodriguez", "David Wilson"}
)

// Generator produces synthetic articles from an injected random source, so
// callers can seed it for reproducible output.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator over the given random source.
func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// Generate produces limit synthetic articles for an industry. Category and
// source, when set, override the random picks. The first two articles are
// marked featured.
func (g *Generator) Generate(industry string, limit int, category, source string) []database.Article {
	articles := make([]database.Article, 0, max(limit, 0))

	for i := 0; i < limit; i++ {
		articleCategory := category
		if articleCategory == "" {
			articleCategory = g.pick(g.categories(industry))
		}

		articleSource := source
		if articleSource == "" {
			articleSource = g.pick(sources)
		}

		content := g.fillContent(industry)
		summary := content
		if len(summary) > 150 {
			summary = summary[:150]
		}

		articles = append(articles, database.Article{
			ID:            i + 1,
			Title:         g.fillTitle(industry),
			Summary:       summary + "...",
			Content:       content,
			URL:           fmt.Sprintf("https://www.%s.com/news/%d", strings.ToLower(articleSource), i+1),
			PublishedDate: time.Now().AddDate(0, 0, -g.rng.Intn(30)),
			Author:        g.pick(authors),
			Source:        articleSource,
			Category:      articleCategory,
			Industry:      strings.ToLower(industry),
			Featured:      i < 2,
		})
	}

	return articles
}

func (g *Generator) categories(industry string) []string {
	if strings.ToLower(industry) == "dental" {
		return dentalCategories
	}
	return aestheticCategories
}

func (g *Generator) treatments(industry string) []string {
	if strings.ToLower(industry) == "dental" {
		return dentalTreatments
	}
	return otherTreatments
}

func (g *Generator) pick(options []string) string {
	return options[g.rng.Intn(len(options))]
}

func (g *Generator) fillTitle(industry string) string {
	title := g.pick(titleTemplates)
	title = strings.Replace(title, "[TECH]", g.pick(technologies), 1)
	title = strings.Replace(title, "[INDUSTRY]", industry, 1)
	title = strings.Replace(title, "[PERCENTAGE]", strconv.Itoa(g.rng.Intn(30)+20), 1)
	title = strings.Replace(title, "[TREATMENT]", g.pick(g.treatments(industry)), 1)
	// The acquisition template names two companies; draw them independently.
	title = strings.Replace(title, "[COMPANY]", g.pick(companies), 1)
	title = strings.Replace(title, "[COMPANY]", g.pick(companies), 1)
	title = strings.Replace(title, "[PRODUCT]", g.pick(products), 1)
	title = strings.Replace(title, "[AMOUNT]", strconv.Itoa(g.rng.Intn(900)+100), 1)
	return title
}

func (g *Generator) fillContent(industry string) string {
	content := g.pick(contentTemplates)
	content = strings.ReplaceAll(content, "[INDUSTRY]", industry)
	content = strings.ReplaceAll(content, "[PERCENTAGE]", strconv.Itoa(g.rng.Intn(30)+20))
	content = strings.ReplaceAll(content, "[NUMBER]", strconv.Itoa(g.rng.Intn(900)+100))
	return content
}
