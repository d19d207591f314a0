// Package pipeline sequences the per-document extraction stages and
// commits one atomic case record per document.
//
// A failure obtaining the text (missing file, OCR backend) is fatal for
// that document and surfaces as an error. Every downstream stage failure
// is stage-local: it is recorded in the document report and substituted
// with an empty result, so the pipeline always completes for any
// document whose text was obtained.
package pipeline

import (
	"context"
	"fmt"

	"github.com/elislabs/elis/internal/extract"
	"github.com/elislabs/elis/internal/ner"
	"github.com/elislabs/elis/internal/normalize"
	"github.com/elislabs/elis/internal/ocr"
	"github.com/elislabs/elis/internal/store"
	"github.com/elislabs/elis/internal/vector"
)

// UnknownCaseID is the sentinel identifier for documents where no case
// number could be extracted. A known data-quality gap, not an error.
const UnknownCaseID = "UNKNOWN"

// Input is one document to process: its source path plus any tables an
// external table extractor pulled from it.
type Input struct {
	Path   string
	Tables []extract.Table
}

// Result is the report for one processed document.
type Result struct {
	CaseID string
	RowID  int64
	Stages []StageResult
	Record *store.CaseRecord
}

// Options configures the optional collaborators.
type Options struct {
	OCR   ocr.Source    // defaults to plain file reading
	Model ner.Extractor // optional ML entity layer
	Index vector.Index  // optional semantic index
}

// Pipeline holds every stage instance. Extractors are compiled once and
// reused across documents; they hold no per-document state.
type Pipeline struct {
	store      *store.Store
	ocr        ocr.Source
	classifier *extract.Classifier
	timeline   *extract.TimelineExtractor
	relations  *extract.RelationExtractor
	financial  *extract.FinancialParser
	rules      ner.Extractor
	model      ner.Extractor
	index      vector.Index
}

// New creates a pipeline writing to the given store.
func New(s *store.Store, opts Options) *Pipeline {
	src := opts.OCR
	if src == nil {
		src = ocr.NewFileSource()
	}
	return &Pipeline{
		store:      s,
		ocr:        src,
		classifier: extract.NewClassifier(),
		timeline:   extract.NewTimelineExtractor(),
		relations:  extract.NewRelationExtractor(),
		financial:  extract.NewFinancialParser(),
		rules:      ner.NewRules(),
		model:      opts.Model,
		index:      opts.Index,
	}
}

// ProcessDocument runs every stage for one document and commits the case
// with all children in a single transaction.
func (p *Pipeline) ProcessDocument(ctx context.Context, in Input) (*Result, error) {
	raw, err := p.ocr.Text(ctx, in.Path)
	if err != nil {
		return nil, fmt.Errorf("obtaining text for %s: %w", in.Path, err)
	}

	result := &Result{}

	clean := normalize.Clean(raw)
	rendered := normalize.Render(clean)
	result.Stages = append(result.Stages, stageOK("normalize", clean == ""))

	meta := extract.ParseMetadata(clean)
	caseID := meta.CaseID
	if caseID == "" {
		caseID = UnknownCaseID
	}
	result.CaseID = caseID
	result.Stages = append(result.Stages, stageOK("metadata", meta.CaseID == "" && meta.OrderDate == ""))

	cls := p.classifier.Classify(clean)
	result.Stages = append(result.Stages, stageOK("classify", cls.CaseType == extract.CaseTypeUnknown))

	events := p.timeline.Extract(clean)
	result.Stages = append(result.Stages, stageOK("timeline", len(events) == 0))

	rels := p.relations.Extract(clean)
	gaps := p.relations.ExtractComplianceGaps(clean)
	result.Stages = append(result.Stages, stageOK("relations", len(rels) == 0))

	entities := p.extractEntities(ctx, clean, result)

	amounts := p.extractFinancial(in.Tables, clean)
	result.Stages = append(result.Stages, stageOK("financial", len(amounts) == 0))

	rec := p.buildRecord(caseID, in.Path, raw, clean, rendered, meta, cls, events, rels, gaps, entities, amounts)
	result.Record = rec

	rowID, err := p.store.CommitCase(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("persisting case %s: %w", caseID, err)
	}
	result.RowID = rowID

	// Indexing happens after the commit: a failed embedding never blocks
	// the relational record.
	if p.index != nil {
		err := p.index.Add(ctx, vector.Document{
			CaseID:    caseID,
			OrderDate: meta.OrderDate,
			Content:   clean,
			Entities:  entities,
		})
		if err != nil {
			result.Stages = append(result.Stages, stageFailed("index", err))
		} else {
			result.Stages = append(result.Stages, stageOK("index", clean == ""))
		}
	}

	return result, nil
}

// extractEntities runs the rule layer, the optional model layer, merges
// and applies the persistence filters. A model failure is stage-local.
func (p *Pipeline) extractEntities(ctx context.Context, text string, result *Result) map[string][]string {
	ruleEnts, err := p.rules.Extract(ctx, text)
	if err != nil {
		result.Stages = append(result.Stages, stageFailed("entities", err))
		ruleEnts = map[string][]string{}
	}

	modelEnts := map[string][]string{}
	if p.model != nil {
		modelEnts, err = p.model.Extract(ctx, text)
		if err != nil {
			result.Stages = append(result.Stages, stageFailed("entities_model", err))
			modelEnts = map[string][]string{}
		}
	}

	merged := ner.FilterEntities(ner.Merge(ruleEnts, modelEnts), ner.DefaultNoiseTokens)
	result.Stages = append(result.Stages, stageOK("entities", len(merged) == 0))
	return merged
}

// extractFinancial tries extracted tables first, free text second.
func (p *Pipeline) extractFinancial(tables []extract.Table, text string) map[string]float64 {
	for _, table := range tables {
		if amounts := p.financial.ParseSchedule(table); len(amounts) > 0 {
			return amounts
		}
	}
	return p.financial.ExtractFromText(text)
}

func (p *Pipeline) buildRecord(
	caseID, path, raw, clean, rendered string,
	meta extract.Metadata,
	cls extract.Classification,
	events []extract.TimelineEvent,
	rels []extract.Relation,
	gaps extract.ComplianceGaps,
	entities map[string][]string,
	amounts map[string]float64,
) *store.CaseRecord {
	rec := &store.CaseRecord{
		Case: store.Case{
			CaseID:       caseID,
			CaseType:     cls.CaseType,
			Outcome:      cls.Outcome,
			Confidence:   cls.Confidence,
			OrderDate:    meta.OrderDate,
			SourcePath:   path,
			RawText:      raw,
			CleanText:    clean,
			RenderedText: rendered,
		},
	}

	for _, entityType := range ner.Types {
		for _, text := range entities[entityType] {
			rec.Entities = append(rec.Entities, store.Entity{Type: entityType, Text: text})
		}
	}

	for _, ev := range events {
		rec.Timeline = append(rec.Timeline, store.TimelineEvent{
			EventDate:  ev.Date,
			Appeared:   ev.Appeared,
			Discussion: ev.Discussion,
			Outcome:    ev.Outcome,
			NextDate:   ev.NextDate,
		})
	}

	for _, rel := range rels {
		stored := store.Relation{
			Type:        rel.Type,
			Object:      rel.Object,
			Context:     rel.Context,
			StartOffset: rel.Start,
		}
		// Two-group patterns captured cause and effect.
		if rel.Consequence != "" {
			stored.Subject = rel.Object
			stored.Object = rel.Consequence
		}
		rec.Relations = append(rec.Relations, stored)
	}
	// Derived gap rows carry no text position. Offsetting them past the end
	// of the document keeps read-back in commit order, after the
	// narrative-ordered relations.
	for _, gapList := range []struct {
		verb  string
		items []string
	}{
		{"requested", gaps.Requested},
		{"submitted", gaps.Submitted},
		{"missing", gaps.Missing},
	} {
		for _, item := range gapList.items {
			rec.Relations = append(rec.Relations, store.Relation{
				Type:        "compliance_gap",
				Verb:        gapList.verb,
				Object:      item,
				StartOffset: len(clean),
			})
		}
	}

	for _, key := range []string{
		extract.AccountEEShare, extract.AccountERShare, extract.AccountAdminCharges,
		extract.AccountPensionFund, extract.AccountInsurance, extract.AccountInsuranceAdmin,
		extract.TotalDuesKey,
	} {
		if amount, ok := amounts[key]; ok {
			rec.Financial = append(rec.Financial, store.FinancialRecord{AccountType: key, Amount: amount})
		}
	}

	p.deriveSummary(rec, cls, entities, amounts)
	return rec
}

// deriveSummary fills the denormalized columns the retriever filters on.
func (p *Pipeline) deriveSummary(rec *store.CaseRecord, cls extract.Classification, entities map[string][]string, amounts map[string]float64) {
	if judges := entities[ner.TypeJudge]; len(judges) > 0 {
		rec.Case.JudgeName = judges[0]
	}
	if ests := entities[ner.TypeEstablishment]; len(ests) > 0 {
		rec.Case.Establishment = ests[0]
	}

	switch cls.CaseType {
	case extract.CaseType7A, extract.CaseType14B:
		rec.Case.SectionCited = cls.CaseType
	default:
		if sections := entities[ner.TypeSection]; len(sections) > 0 {
			rec.Case.SectionCited = sections[0]
		}
	}

	if total, ok := amounts[extract.TotalDuesKey]; ok {
		rec.Case.TotalDues = total
		return
	}
	// No breakdown: fall back to the largest Amount entity.
	var max float64
	for _, raw := range entities[ner.TypeAmount] {
		if amount, ok := p.financial.CleanAmount(raw); ok && amount > max {
			max = amount
		}
	}
	rec.Case.TotalDues = max
}
