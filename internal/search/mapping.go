package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for artist documents.
//
// The mapping is designed with these priorities:
//  1. Fast full-text search on business names with English stemming
//  2. Boosted relevance for maker name matches
//  3. Exact keyword matching for craft type and specialty filters
//  4. Term vectors enabled on key fields for highlighting
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()

	// Use English analyzer as default for text fields
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	// --- Text fields (full-text searchable) ---

	// Business name - primary search target
	businessNameFieldMapping := bleve.NewTextFieldMapping()
	businessNameFieldMapping.Analyzer = en.AnalyzerName
	businessNameFieldMapping.Store = true
	businessNameFieldMapping.IncludeTermVectors = true // For highlighting
	docMapping.AddFieldMappingsAt("business_name", businessNameFieldMapping)

	// Maker name - simple analyzer, names shouldn't be stemmed
	makerNameFieldMapping := bleve.NewTextFieldMapping()
	makerNameFieldMapping.Analyzer = simple.Name
	makerNameFieldMapping.Store = true
	makerNameFieldMapping.IncludeTermVectors = true // For highlighting
	docMapping.AddFieldMappingsAt("maker_name", makerNameFieldMapping)

	// Description - searchable but not stored (too large)
	descFieldMapping := bleve.NewTextFieldMapping()
	descFieldMapping.Analyzer = en.AnalyzerName
	descFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("description", descFieldMapping)

	// --- Keyword fields (exact match, facetable) ---

	// Craft type - for filtering and faceting
	typeFieldMapping := bleve.NewTextFieldMapping()
	typeFieldMapping.Analyzer = keyword.Name
	typeFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("type", typeFieldMapping)

	// Specialties - keyword analyzer keeps compound tags intact (e.g., "slip-casting")
	specialtiesFieldMapping := bleve.NewTextFieldMapping()
	specialtiesFieldMapping.Analyzer = keyword.Name
	specialtiesFieldMapping.Store = true
	specialtiesFieldMapping.IncludeTermVectors = true // For faceting
	docMapping.AddFieldMappingsAt("specialties", specialtiesFieldMapping)

	// City - exact match filtering
	cityFieldMapping := bleve.NewTextFieldMapping()
	cityFieldMapping.Analyzer = keyword.Name
	cityFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("city", cityFieldMapping)

	// ID - stored but not analyzed
	idFieldMapping := bleve.NewTextFieldMapping()
	idFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("id", idFieldMapping)

	// Featured flag - for filtering
	featuredFieldMapping := bleve.NewBooleanFieldMapping()
	featuredFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("featured", featuredFieldMapping)

	// --- Numeric fields (sorting) ---

	createdAtFieldMapping := bleve.NewNumericFieldMapping()
	createdAtFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("created_at", createdAtFieldMapping)

	updatedAtFieldMapping := bleve.NewNumericFieldMapping()
	updatedAtFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("updated_at", updatedAtFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
