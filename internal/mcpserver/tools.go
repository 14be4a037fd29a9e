package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/gwaskit/gwaskit/internal/gwas"
)

// batchFetchLimit caps in-flight upstream calls for the batch EFO tool.
const batchFetchLimit = 4

// defaultTopN is the default ranking depth for trait_variant_ranking.
const defaultTopN = 10

// toolset binds the tool handlers to one client and the server defaults.
type toolset struct {
	client           *gwas.Client
	maxItemsInMemory int
	outputDir        string
}

// OutputOptions are the result-shaping options shared by collection tools.
type OutputOptions struct {
	MaxItemsInMemory int    `json:"max_items_in_memory,omitempty" jsonschema:"Threshold for in-memory results (default: 5000)"`
	ForceToFile      bool   `json:"force_to_file,omitempty" jsonschema:"Force file output regardless of result size"`
	OutputDir        string `json:"output_dir,omitempty" jsonschema:"Directory for file output (default: system temp dir)"`
	ForceNoFile      bool   `json:"force_no_file,omitempty" jsonschema:"Never write to file, even for results above the in-memory threshold"`
	RemoveLinks      *bool  `json:"remove_links,omitempty" jsonschema:"Remove _links fields from items (default: true)"`
}

// StudyInput identifies a study.
type StudyInput struct {
	StudyID     string `json:"studyId" jsonschema:"GWAS Catalog study identifier (e.g. GCST000001)"`
	RemoveLinks *bool  `json:"remove_links,omitempty" jsonschema:"Remove _links fields from the output (default: true)"`
}

// AssociationInput identifies an association.
type AssociationInput struct {
	AssociationID string `json:"associationId" jsonschema:"GWAS Catalog association identifier"`
	RemoveLinks   *bool  `json:"remove_links,omitempty" jsonschema:"Remove _links fields from the output (default: true)"`
}

// VariantInput identifies a variant.
type VariantInput struct {
	VariantID   string `json:"variantId" jsonschema:"Single nucleotide polymorphism identifier (e.g. rs123)"`
	RemoveLinks *bool  `json:"remove_links,omitempty" jsonschema:"Remove _links fields from the output (default: true)"`
}

// TraitInput identifies an EFO trait.
type TraitInput struct {
	EFOID       string `json:"efoId" jsonschema:"EFO trait identifier (e.g. EFO_0000305)"`
	RemoveLinks *bool  `json:"remove_links,omitempty" jsonschema:"Remove _links fields from the output (default: true)"`
}

// RegionSearchInput is the input schema for search_variants_in_region.
type RegionSearchInput struct {
	Chromosome    string `json:"chromosome" jsonschema:"Chromosome (e.g. 1)"`
	Start         int    `json:"start" jsonschema:"GRCh38 base-pair start position"`
	End           int    `json:"end" jsonschema:"GRCh38 base-pair end position"`
	EFOID         string `json:"efo_id,omitempty" jsonschema:"Optional EFO trait ID filter (e.g. EFO_0000305)"`
	ReturnOnlySig *bool  `json:"return_only_sig,omitempty" jsonschema:"Return only genome-wide significant associations (default: true)"`
	OutputOptions
}

// EFOBatchInput is the input schema for get_variants_from_efo_ids.
type EFOBatchInput struct {
	EFOIDs        []string `json:"efo_ids" jsonschema:"EFO trait identifiers (e.g. [EFO_0001360, EFO_0004340])"`
	ReturnOnlySig *bool    `json:"return_only_sig,omitempty" jsonschema:"Return only genome-wide significant associations (default: true)"`
	OutputOptions
}

// RankingInput is the input schema for trait_variant_ranking.
type RankingInput struct {
	EFOID         string `json:"efo_id" jsonschema:"EFO trait identifier"`
	TopN          int    `json:"top_n,omitempty" jsonschema:"Number of top records to return (default: 10)"`
	ReturnOnlySig *bool  `json:"return_only_sig,omitempty" jsonschema:"Return only genome-wide significant associations (default: true)"`
	OutputOptions
}

// StudyAssociationsInput is the input schema for get_study_associations.
type StudyAssociationsInput struct {
	StudyID       string `json:"studyId" jsonschema:"GWAS Catalog study identifier"`
	ReturnOnlySig *bool  `json:"return_only_sig,omitempty" jsonschema:"Return only genome-wide significant associations (default: true)"`
	OutputOptions
}

// TraitStudiesInput is the input schema for get_trait_studies.
type TraitStudiesInput struct {
	EFOID string `json:"efoId" jsonschema:"EFO trait identifier"`
	OutputOptions
}

// TraitAssociationsInput is the input schema for get_trait_associations.
type TraitAssociationsInput struct {
	EFOID         string `json:"efoId" jsonschema:"EFO trait identifier"`
	ReturnOnlySig *bool  `json:"return_only_sig,omitempty" jsonschema:"Return only genome-wide significant associations (default: true)"`
	OutputOptions
}

// RegionTraitInput is the input schema for get_region_trait_associations.
type RegionTraitInput struct {
	Chromosome    string `json:"chromosome" jsonschema:"Chromosome (e.g. 1)"`
	Start         int    `json:"start" jsonschema:"Base-pair lower bound of the region"`
	End           int    `json:"end" jsonschema:"Base-pair upper bound of the region"`
	EFOID         string `json:"efo_id" jsonschema:"EFO trait identifier (e.g. EFO_0008531)"`
	ReturnOnlySig *bool  `json:"return_only_sig,omitempty" jsonschema:"Return only genome-wide significant associations (default: true)"`
	OutputOptions
}

// VariantAssociationsInput is the input schema for get_associations_from_variant.
type VariantAssociationsInput struct {
	VariantID     string `json:"variantId" jsonschema:"Variant identifier (e.g. rs10875231)"`
	ReturnOnlySig *bool  `json:"return_only_sig,omitempty" jsonschema:"Return only genome-wide significant associations (default: true)"`
	OutputOptions
}

// ToolInfo is a tool name and short description for CLI listings.
type ToolInfo struct {
	Name        string
	Description string
}

// toolDescriptions double as the MCP tool descriptions and the CLI listing.
var toolDescriptions = map[string]string{
	"get_study":                     "Retrieve detailed study information by study ID.",
	"get_association":               "Retrieve detailed association information by association ID.",
	"get_variant":                   "Retrieve detailed variant information by variant ID.",
	"get_trait":                     "Retrieve trait information by EFO trait ID.",
	"search_variants_in_region":     "Search associations by genomic region (GRCh38) with an optional EFO trait filter. Large results spill to a file; check is_complete and metadata.output_file.",
	"get_variants_from_efo_ids":     "Batch search for associations of each EFO trait ID in a list. Returns a map of EFO ID to result envelope; check each envelope's is_complete.",
	"trait_variant_ranking":         "Rank variants for an EFO trait by p-value (most significant first) and return the top N.",
	"get_study_associations":        "Retrieve all associations reported by a study. Large results spill to a file; check is_complete and metadata.output_file.",
	"get_trait_studies":             "Retrieve studies linked to an EFO trait ID.",
	"get_trait_associations":        "Retrieve associations linked to an EFO trait ID. Unexpected response shapes are returned as-is rather than failing.",
	"get_region_trait_associations": "Retrieve summary-statistics associations for a trait within a chromosome region.",
	"get_associations_from_variant": "Retrieve associations for a variant; by default only genome-wide significant records (p <= 5e-8) are returned.",
}

// toolOrder fixes the listing order for Tools().
var toolOrder = []string{
	"get_study",
	"get_association",
	"get_variant",
	"get_trait",
	"search_variants_in_region",
	"get_variants_from_efo_ids",
	"trait_variant_ranking",
	"get_study_associations",
	"get_trait_studies",
	"get_trait_associations",
	"get_region_trait_associations",
	"get_associations_from_variant",
}

// Tools lists the registered tools in a stable order.
func Tools() []ToolInfo {
	infos := make([]ToolInfo, 0, len(toolOrder))
	for _, name := range toolOrder {
		infos = append(infos, ToolInfo{Name: name, Description: toolDescriptions[name]})
	}
	return infos
}

// boolPtr returns a pointer to a bool.
func boolPtr(b bool) *bool { return &b }

// intPtr returns a pointer to an int.
func intPtr(n int) *int { return &n }

// readOnly marks a tool as a pure upstream read (the spill file write is an
// artifact of result shaping, not a mutation of managed state).
func readOnly() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:    true,
		DestructiveHint: boolPtr(false),
		OpenWorldHint:   boolPtr(true),
	}
}

// toolDef builds the shared mcp.Tool metadata for a named tool.
func toolDef(name string) *mcp.Tool {
	return &mcp.Tool{
		Name:        name,
		Description: "[GWAS Catalog API] " + toolDescriptions[name],
		Annotations: readOnly(),
	}
}

// registerTools adds all GWAS Catalog tools to the MCP server.
func registerTools(server *mcp.Server, ts *toolset) {
	mcp.AddTool(server, toolDef("get_study"), ts.handleGetStudy)
	mcp.AddTool(server, toolDef("get_association"), ts.handleGetAssociation)
	mcp.AddTool(server, toolDef("get_variant"), ts.handleGetVariant)
	mcp.AddTool(server, toolDef("get_trait"), ts.handleGetTrait)
	mcp.AddTool(server, toolDef("search_variants_in_region"), ts.handleRegionSearch)
	mcp.AddTool(server, toolDef("get_variants_from_efo_ids"), ts.handleEFOBatch)
	mcp.AddTool(server, toolDef("trait_variant_ranking"), ts.handleRanking)
	mcp.AddTool(server, toolDef("get_study_associations"), ts.handleStudyAssociations)
	mcp.AddTool(server, toolDef("get_trait_studies"), ts.handleTraitStudies)
	mcp.AddTool(server, toolDef("get_trait_associations"), ts.handleTraitAssociations)
	mcp.AddTool(server, toolDef("get_region_trait_associations"), ts.handleRegionTrait)
	mcp.AddTool(server, toolDef("get_associations_from_variant"), ts.handleVariantAssociations)
}

// --- singleton tools ---

func (ts *toolset) handleGetStudy(ctx context.Context, _ *mcp.CallToolRequest, in StudyInput) (*mcp.CallToolResult, any, error) {
	if err := gwas.RequireParam("studyId", in.StudyID); err != nil {
		return nil, nil, err
	}
	obj, err := ts.getObject(ctx, ts.client.StudyURL(in.StudyID), in.RemoveLinks)
	if err != nil {
		return nil, nil, err
	}
	return textResult(obj)
}

func (ts *toolset) handleGetAssociation(ctx context.Context, _ *mcp.CallToolRequest, in AssociationInput) (*mcp.CallToolResult, any, error) {
	if err := gwas.RequireParam("associationId", in.AssociationID); err != nil {
		return nil, nil, err
	}
	obj, err := ts.getObject(ctx, ts.client.AssociationURL(in.AssociationID), in.RemoveLinks)
	if err != nil {
		return nil, nil, err
	}
	obj["association_id"] = in.AssociationID
	return textResult(obj)
}

func (ts *toolset) handleGetVariant(ctx context.Context, _ *mcp.CallToolRequest, in VariantInput) (*mcp.CallToolResult, any, error) {
	if err := gwas.RequireParam("variantId", in.VariantID); err != nil {
		return nil, nil, err
	}
	obj, err := ts.getObject(ctx, ts.client.VariantURL(in.VariantID), in.RemoveLinks)
	if err != nil {
		return nil, nil, err
	}
	return textResult(obj)
}

func (ts *toolset) handleGetTrait(ctx context.Context, _ *mcp.CallToolRequest, in TraitInput) (*mcp.CallToolResult, any, error) {
	if err := gwas.RequireParam("efoId", in.EFOID); err != nil {
		return nil, nil, err
	}
	obj, err := ts.getObject(ctx, ts.client.TraitURL(in.EFOID), in.RemoveLinks)
	if err != nil {
		return nil, nil, err
	}
	obj["trait_id"] = in.EFOID
	return textResult(obj)
}

// --- collection tools ---

func (ts *toolset) handleRegionSearch(ctx context.Context, _ *mcp.CallToolRequest, in RegionSearchInput) (*mcp.CallToolResult, any, error) {
	if err := gwas.RequireParam("chromosome", in.Chromosome); err != nil {
		return nil, nil, err
	}
	if in.EFOID != "" {
		if err := gwas.ValidateEFOID(in.EFOID); err != nil {
			return nil, nil, err
		}
	}
	reqURL := ts.client.RegionAssociationsURL(in.Chromosome, in.Start, in.End, in.EFOID)
	env, err := ts.collect(ctx, reqURL, "associations", in.OutputOptions, significanceParams(in.ReturnOnlySig))
	if err != nil {
		return nil, nil, err
	}
	return textResult(env)
}

func (ts *toolset) handleEFOBatch(ctx context.Context, _ *mcp.CallToolRequest, in EFOBatchInput) (*mcp.CallToolResult, any, error) {
	if len(in.EFOIDs) == 0 {
		return nil, nil, &gwas.ValidationError{Param: "efo_ids", Message: "at least one EFO ID is required"}
	}
	for _, id := range in.EFOIDs {
		if err := gwas.ValidateEFOID(id); err != nil {
			return nil, nil, err
		}
	}

	envelopes := make([]*gwas.Envelope, len(in.EFOIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchFetchLimit)
	for i, id := range in.EFOIDs {
		g.Go(func() error {
			reqURL := ts.client.TraitAssociationsQueryURL(id)
			env, err := ts.collect(gctx, reqURL, "associations", in.OutputOptions, significanceParams(in.ReturnOnlySig))
			if err != nil {
				return fmt.Errorf("%s: %w", id, err)
			}
			envelopes[i] = env
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	results := make(map[string]*gwas.Envelope, len(in.EFOIDs))
	for i, id := range in.EFOIDs {
		results[id] = envelopes[i]
	}
	return textResult(results)
}

func (ts *toolset) handleRanking(ctx context.Context, _ *mcp.CallToolRequest, in RankingInput) (*mcp.CallToolResult, any, error) {
	if err := gwas.ValidateEFOID(in.EFOID); err != nil {
		return nil, nil, err
	}
	topN := in.TopN
	if topN <= 0 {
		topN = defaultTopN
	}

	reqURL := ts.client.TraitAssociationsQueryURL(in.EFOID)
	raw, err := ts.client.GetJSON(ctx, reqURL)
	if err != nil {
		return nil, nil, err
	}

	items, shape := gwas.Normalize(raw, "associations")
	if shape == gwas.ShapeUnrecognized {
		slog.Warn("unexpected response shape, returning raw structure", "tool", "trait_variant_ranking", "url", reqURL)
	} else {
		items = gwas.RankByPValue(items, topN)
	}
	env, err := ts.shape(items, reqURL, in.OutputOptions, significanceParams(in.ReturnOnlySig), shape)
	if err != nil {
		return nil, nil, err
	}
	return textResult(env)
}

func (ts *toolset) handleStudyAssociations(ctx context.Context, _ *mcp.CallToolRequest, in StudyAssociationsInput) (*mcp.CallToolResult, any, error) {
	if err := gwas.RequireParam("studyId", in.StudyID); err != nil {
		return nil, nil, err
	}
	reqURL := ts.client.StudyAssociationsURL(in.StudyID)
	env, err := ts.collect(ctx, reqURL, "associations", in.OutputOptions, significanceParams(in.ReturnOnlySig))
	if err != nil {
		return nil, nil, err
	}
	return textResult(env)
}

func (ts *toolset) handleTraitStudies(ctx context.Context, _ *mcp.CallToolRequest, in TraitStudiesInput) (*mcp.CallToolResult, any, error) {
	if err := gwas.RequireParam("efoId", in.EFOID); err != nil {
		return nil, nil, err
	}
	reqURL := ts.client.TraitStudiesURL(in.EFOID)
	env, err := ts.collect(ctx, reqURL, "studies", in.OutputOptions, sigParams{})
	if err != nil {
		return nil, nil, err
	}
	return textResult(env)
}

func (ts *toolset) handleTraitAssociations(ctx context.Context, _ *mcp.CallToolRequest, in TraitAssociationsInput) (*mcp.CallToolResult, any, error) {
	if err := gwas.RequireParam("efoId", in.EFOID); err != nil {
		return nil, nil, err
	}
	reqURL := ts.client.TraitAssociationsURL(in.EFOID)
	env, err := ts.collect(ctx, reqURL, "associations", in.OutputOptions, significanceParams(in.ReturnOnlySig))
	if err != nil {
		return nil, nil, err
	}
	return textResult(env)
}

func (ts *toolset) handleRegionTrait(ctx context.Context, _ *mcp.CallToolRequest, in RegionTraitInput) (*mcp.CallToolResult, any, error) {
	if err := gwas.RequireParam("chromosome", in.Chromosome); err != nil {
		return nil, nil, err
	}
	if err := gwas.ValidateEFOID(in.EFOID); err != nil {
		return nil, nil, err
	}
	reqURL := ts.client.RegionTraitAssociationsURL(in.Chromosome, in.Start, in.End, in.EFOID)
	env, err := ts.collect(ctx, reqURL, "associations", in.OutputOptions, significanceParams(in.ReturnOnlySig))
	if err != nil {
		return nil, nil, err
	}
	return textResult(env)
}

func (ts *toolset) handleVariantAssociations(ctx context.Context, _ *mcp.CallToolRequest, in VariantAssociationsInput) (*mcp.CallToolResult, any, error) {
	if err := gwas.RequireParam("variantId", in.VariantID); err != nil {
		return nil, nil, err
	}
	reqURL := ts.client.VariantAssociationsURL(in.VariantID)
	env, err := ts.collect(ctx, reqURL, "associations", in.OutputOptions, significanceParams(in.ReturnOnlySig))
	if err != nil {
		return nil, nil, err
	}
	return textResult(env)
}

// --- shared plumbing ---

// sigParams controls significance processing for one collection call.
// The zero value disables it (study listings carry no p-values).
type sigParams struct {
	annotate      bool
	returnOnlySig bool
}

// significanceParams resolves the return_only_sig option (default true) for
// association-bearing tools.
func significanceParams(returnOnlySig *bool) sigParams {
	p := sigParams{annotate: true, returnOnlySig: true}
	if returnOnlySig != nil {
		p.returnOnlySig = *returnOnlySig
	}
	return p
}

// collect fetches a collection endpoint and shapes it into an Envelope.
func (ts *toolset) collect(ctx context.Context, reqURL, embedKey string, out OutputOptions, sig sigParams) (*gwas.Envelope, error) {
	raw, err := ts.client.GetJSON(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	items, shape := gwas.Normalize(raw, embedKey)
	if shape == gwas.ShapeUnrecognized {
		slog.Warn("unexpected response shape, returning raw structure", "url", reqURL)
	}
	return ts.shape(items, reqURL, out, sig, shape)
}

// shape applies significance processing, link stripping, and envelope
// construction to an already-normalized item list.
func (ts *toolset) shape(items []map[string]any, reqURL string, out OutputOptions, sig sigParams, shape gwas.Shape) (*gwas.Envelope, error) {
	opts := gwas.BuildOptions{
		MaxItemsInMemory: out.MaxItemsInMemory,
		ForceToFile:      out.ForceToFile,
		ForceNoFile:      out.ForceNoFile,
		OutputDir:        out.OutputDir,
		TotalItems:       len(items),
	}
	if opts.MaxItemsInMemory <= 0 {
		opts.MaxItemsInMemory = ts.maxItemsInMemory
	}
	if opts.OutputDir == "" {
		opts.OutputDir = ts.outputDir
	}

	// The raw-structure fallback carries no association records, so
	// significance processing would only discard the payload.
	if sig.annotate && shape != gwas.ShapeUnrecognized {
		count := gwas.AnnotateSignificance(items)
		opts.Significant = intPtr(count)
		opts.ReturnOnlySig = boolPtr(sig.returnOnlySig)
		if sig.returnOnlySig {
			items = gwas.FilterSignificant(items)
		}
	}

	if out.RemoveLinks == nil || *out.RemoveLinks {
		items = gwas.StripItemLinks(items)
	}

	return gwas.BuildEnvelope(items, reqURL, opts), nil
}

// getObject fetches a singleton endpoint and decorates the record with the
// request URL and status, mirroring the catalog's own response convention.
func (ts *toolset) getObject(ctx context.Context, reqURL string, removeLinks *bool) (map[string]any, error) {
	raw, err := ts.client.GetJSON(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	items, shape := gwas.Normalize(raw, "")
	if shape != gwas.ShapeSingleton || len(items) != 1 {
		return nil, &gwas.UpstreamError{Status: http.StatusOK, URL: reqURL, Msg: fmt.Sprintf("expected a single object, got %s response", shape)}
	}

	obj := items[0]
	if removeLinks == nil || *removeLinks {
		obj = gwas.StripLinks(obj).(map[string]any)
	}
	obj["status"] = http.StatusOK
	obj["request_url"] = reqURL
	return obj, nil
}

// textResult marshals v as indented JSON text content.
func textResult(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil, nil
}
