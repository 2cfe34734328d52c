// Package classify maps free text onto a fixed per-industry category
// taxonomy by keyword scoring.
package classify

import (
	"regexp"
	"strings"
)

// General is returned when no category keyword matches at all.
const General = "General"

type category struct {
	name     string
	keywords []*regexp.Regexp
}

// Taxonomies are ordered: ties resolve to the earlier category.
var (
	dentalCategories = []category{
		newCategory("Technology", "technology", "digital", "software", "ai", "artificial intelligence", "machine learning", "innovation", "tech"),
		newCategory("Business", "business", "market", "industry", "revenue", "growth", "acquisition", "merger", "investment"),
		newCategory("Clinical", "clinical", "treatment", "procedure", "patient", "care", "therapy", "diagnosis", "health"),
		newCategory("Education", "education", "training", "course", "certification", "degree", "student", "learning", "school"),
		newCategory("Research", "research", "study", "trial", "investigation", "discovery", "science", "scientific", "development"),
		newCategory("Regulation", "regulation", "compliance", "law", "legal", "fda", "approval", "guideline", "standard"),
	}

	aestheticCategories = []category{
		newCategory("Technology", "technology", "digital", "software", "ai", "artificial intelligence", "machine learning", "innovation", "tech"),
		newCategory("Business", "business", "market", "industry", "revenue", "growth", "acquisition", "merger", "investment"),
		newCategory("Treatments", "treatment", "procedure", "injection", "filler", "botox", "laser", "surgery", "therapy"),
		newCategory("Skincare", "skin", "skincare", "cream", "serum", "moisturizer", "cleanser", "anti-aging", "wrinkle"),
		newCategory("Wellness", "wellness", "health", "lifestyle", "nutrition", "diet", "exercise", "holistic", "natural"),
		newCategory("Trends", "trend", "popular", "celebrity", "influencer", "social media", "instagram", "tiktok", "viral"),
	}
)

func newCategory(name string, keywords ...string) category {
	c := category{name: name}
	for _, kw := range keywords {
		c.keywords = append(c.keywords, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(kw)+`\b`))
	}
	return c
}

// Categories returns the category names for an industry in canonical order.
// Unknown industries get the aesthetic taxonomy, matching the original
// dental-or-else split.
func Categories(industry string) []string {
	var names []string
	for _, c := range taxonomy(industry) {
		names = append(names, c.name)
	}
	return names
}

func taxonomy(industry string) []category {
	if strings.ToLower(industry) == "dental" {
		return dentalCategories
	}
	return aestheticCategories
}

// Classify counts whole-word keyword occurrences per category and returns
// the highest-scoring category name. Ties go to the category enumerated
// first; zero matches everywhere yields General.
func Classify(text, industry string) string {
	best := General
	bestCount := 0

	for _, c := range taxonomy(industry) {
		count := 0
		for _, kw := range c.keywords {
			count += len(kw.FindAllStringIndex(text, -1))
		}
		if count > bestCount {
			bestCount = count
			best = c.name
		}
	}

	return best
}
