package bench

import (
	"errors"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Query methods understood by targets.
const (
	MethodVariantByID        = "q1_variant_by_id"
	MethodVariantByPosition  = "q2_variant_by_position"
	MethodVariantByRSID      = "q3_variant_by_rsid"
	MethodGeneAll            = "q4_variants_in_gene_all"
	MethodGeneLimited        = "q5_variants_in_gene_limited"
	MethodRangeSmall         = "q6_range_small"
	MethodRangeMedium        = "q7_range_medium"
	MethodRangeLarge         = "q8_range_large"
	MethodTranscriptVariants = "q9_transcript_variants"
	MethodCodingVariants     = "q10_coding_variants"
	MethodGeneWithQuality    = "q11_gene_with_quality"
	MethodGeneRare           = "q12_gene_rare"
)

var knownMethods = map[string]bool{
	MethodVariantByID: true, MethodVariantByPosition: true, MethodVariantByRSID: true,
	MethodGeneAll: true, MethodGeneLimited: true, MethodRangeSmall: true,
	MethodRangeMedium: true, MethodRangeLarge: true, MethodTranscriptVariants: true,
	MethodCodingVariants: true, MethodGeneWithQuality: true, MethodGeneRare: true,
}

// KnownMethod reports whether m is one of the twelve query methods.
func KnownMethod(m string) bool { return knownMethods[m] }

type Query struct {
	ID          string
	Method      string
	Params      map[string]any
	Description string
}

// DefaultQueries returns Q1..Q12 against chr22 and BRCA1.
func DefaultQueries() []Query {
	return []Query{
		{"Q1", MethodVariantByID, map[string]any{"chromosome": "chr22", "position": 10736093, "ref": "A", "alt": "T"}, "Variant by ID (chr22:10736093:A:T)"},
		{"Q2", MethodVariantByPosition, map[string]any{"chromosome": "chr22", "position": 10736093}, "Variant by Position (chr22:10736093)"},
		{"Q3", MethodVariantByRSID, map[string]any{"rsid": "rs1394819064"}, "Variant by rsID (rs1394819064)"},
		{"Q4", MethodGeneAll, map[string]any{"gene": "BRCA1"}, "All Variants in Gene (BRCA1)"},
		{"Q5", MethodGeneLimited, map[string]any{"gene": "BRCA1", "limit": 100}, "Gene Variants Limited (BRCA1, first 100)"},
		{"Q6", MethodRangeSmall, map[string]any{"chromosome": "chr22", "start": 10736093, "end": 10739993}, "Small Range (chr22:10736093-10739993)"},
		{"Q7", MethodRangeMedium, map[string]any{"chromosome": "chr22", "start": 10500000, "end": 10600000}, "Medium Range (chr22:10500000-10600000)"},
		{"Q8", MethodRangeLarge, map[string]any{"chromosome": "chr22", "start": 10500000, "end": 20500000}, "Large Range (chr22:10500000-20500000)"},
		{"Q9", MethodTranscriptVariants, map[string]any{"transcript": "ENST00000615943"}, "Transcript Variants (ENST00000615943)"},
		{"Q10", MethodCodingVariants, map[string]any{"consequences": []any{"missense_variant", "frameshift_variant", "stop_gained"}}, "Coding Variants"},
		{"Q11", MethodGeneWithQuality, map[string]any{"gene": "BRCA1", "min_quality": 30.0}, "Gene with Quality (BRCA1, Q>30)"},
		{"Q12", MethodGeneRare, map[string]any{"gene": "BRCA1", "max_af": 0.01}, "Rare Variants (BRCA1, AF<0.01)"},
	}
}

type queryDef struct {
	Method      string         `yaml:"method"`
	Params      map[string]any `yaml:"params"`
	Description string         `yaml:"description"`
}

// LoadQueries reads a query config of the form
//
//	{"queries": {"Q1": {"method": "...", "params": {...}, "description": "..."}}}
//
// keeping the file's key order. A missing or unreadable file, or one without
// queries, falls back to DefaultQueries; the bool reports whether the file was used.
func LoadQueries(path string) ([]Query, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Infof("query configuration file %q not found, using default queries", path)
		} else {
			log.WithError(err).Warnf("cannot read query configuration %q, using default queries", path)
		}
		return DefaultQueries(), false
	}
	queries, err := parseQueries(data)
	if err != nil {
		log.WithError(err).Warnf("error parsing query configuration %q, using default queries", path)
		return DefaultQueries(), false
	}
	if len(queries) == 0 {
		log.Infof("query configuration %q defines no queries, using default queries", path)
		return DefaultQueries(), false
	}
	return queries, true
}

func parseQueries(data []byte) ([]Query, error) {
	var doc struct {
		Queries yaml.Node `yaml:"queries"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Queries.Kind != yaml.MappingNode {
		return nil, nil
	}
	var out []Query
	content := doc.Queries.Content
	for i := 0; i+1 < len(content); i += 2 {
		id := content[i].Value
		var def queryDef
		if err := content[i+1].Decode(&def); err != nil {
			return nil, err
		}
		if !KnownMethod(def.Method) {
			log.WithField("query", id).Warnf("unknown method %q, skipping", def.Method)
			continue
		}
		if def.Params == nil {
			def.Params = map[string]any{}
		}
		out = append(out, Query{ID: id, Method: def.Method, Params: def.Params, Description: def.Description})
	}
	return out, nil
}

// Filter keeps queries whose ID appears in the comma list ("Q1,Q2,Q3"); "all" or "" keeps everything.
func Filter(queries []Query, list string) []Query {
	list = strings.TrimSpace(list)
	if list == "" || strings.EqualFold(list, "all") {
		return queries
	}
	want := map[string]bool{}
	for _, id := range strings.Split(list, ",") {
		if id = strings.TrimSpace(id); id != "" {
			want[id] = true
		}
	}
	var out []Query
	for _, q := range queries {
		if want[q.ID] {
			out = append(out, q)
		}
	}
	return out
}
