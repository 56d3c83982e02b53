package swagger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bronystylecrazy/swagsummary/describe"
	"github.com/bronystylecrazy/swagsummary/enum"
	"github.com/bronystylecrazy/swagsummary/filter"
	"github.com/bronystylecrazy/swagsummary/xmldoc"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

type ticketStatus int

const (
	ticketOpen ticketStatus = iota
	ticketClosed
)

type ticket struct {
	ID     int          `json:"id"`
	Title  string       `json:"title"`
	Status ticketStatus `json:"status"`
}

type assignment struct {
	Ticket   ticket   `json:"ticket"`
	Watchers []ticket `json:"watchers"`
	Assignee string   `json:"assignee"`
}

const openFragment = "<ul>\n<li><b>0-Open</b>: Ticket is open</li>\n</ul>"

func ticketPipeline() *filter.Pipeline {
	registry := enum.NewRegistry()
	registry.Add(enum.For[ticketStatus]("Contoso.Tickets.Status",
		enum.Value("Open", ticketOpen),
		enum.Value("Closed", ticketClosed),
	))
	docs := xmldoc.FromEntries(map[string]string{
		"T:Contoso.Tickets.Status":      "Ticket state.",
		"F:Contoso.Tickets.Status.Open": "Ticket is open",
	})
	return filter.Default(filter.WithRegistry(registry), filter.WithDocs(docs))
}

func ticketDocument(t *testing.T, opts ...Option) *openapi3.T {
	t.Helper()
	g := NewGenerator(ticketPipeline(), opts...)

	status, err := g.Parameter(openapi3.ParameterInQuery, "status", ticketStatus(0), "Ticket status.")
	require.NoError(t, err)
	body, err := g.Schema(&ticket{})
	require.NoError(t, err)

	require.NoError(t, g.AddOperation("get", "/tickets", &openapi3.Operation{
		OperationID: "listTickets",
		Parameters:  openapi3.Parameters{status},
	}))
	require.NoError(t, g.AddOperation("post", "/tickets", &openapi3.Operation{
		OperationID: "createTicket",
		RequestBody: &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().WithJSONSchemaRef(body)},
	}))
	return g.Build()
}

// requireLocalRefs fails when doc serializes a $ref that does not resolve to
// one of its own component schemas.
func requireLocalRefs(t *testing.T, doc *openapi3.T) map[string]any {
	t.Helper()
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	var tree map[string]any
	require.NoError(t, json.Unmarshal(data, &tree))

	components, _ := tree["components"].(map[string]any)
	schemas, _ := components["schemas"].(map[string]any)
	var walk func(v any)
	walk = func(v any) {
		switch v := v.(type) {
		case map[string]any:
			if ref, ok := v["$ref"].(string); ok {
				require.True(t, strings.HasPrefix(ref, "#/components/schemas/"), "external ref %q", ref)
				require.Contains(t, schemas, strings.TrimPrefix(ref, "#/components/schemas/"))
			}
			for _, child := range v {
				walk(child)
			}
		case []any:
			for _, child := range v {
				walk(child)
			}
		}
	}
	walk(tree)

	_, err = openapi3.NewLoader().LoadFromData(data)
	require.NoError(t, err)
	return schemas
}

func TestGenerator_EnrichesRegisteredEnums(t *testing.T) {
	doc := ticketDocument(t, WithTitle("Tickets"))

	require.Contains(t, doc.Components.Schemas, "ticketStatus")
	status := doc.Components.Schemas["ticketStatus"].Value
	assert.Equal(t, []string{"Open", "Closed"}, status.Extensions[enum.ExtensionEnumNames])
	assert.Equal(t, []string{"Open", "Closed"}, status.Extensions[enum.ExtensionEnumVarNames])
	assert.Equal(t, "Ticket state."+describe.PossibleValuesPreamble+"\n"+openFragment+"\n", status.Description)

	op := doc.Paths.Value("/tickets").Get
	require.NotNil(t, op)
	param := op.Parameters.GetByInAndName(openapi3.ParameterInQuery, "status")
	require.NotNil(t, param)
	assert.Equal(t, "#/components/schemas/ticketStatus", param.Schema.Ref)
	assert.Equal(t, "Ticket status."+describe.VariantsPreamble+openFragment, param.Description)
}

func TestGenerator_StructComponents(t *testing.T) {
	doc := ticketDocument(t)

	require.Contains(t, doc.Components.Schemas, "ticket")
	model := doc.Components.Schemas["ticket"].Value
	require.Contains(t, model.Properties, "status")
	field := model.Properties["status"].Value
	assert.Equal(t, []string{"Open", "Closed"}, field.Extensions[enum.ExtensionEnumNames])
	assert.Contains(t, field.Description, openFragment)
	assert.Contains(t, model.Properties, "title")

	schemas := requireLocalRefs(t, doc)
	props := schemas["ticket"].(map[string]any)["properties"].(map[string]any)
	assert.Equal(t, "integer", props["id"].(map[string]any)["type"])
	assert.Equal(t, "string", props["title"].(map[string]any)["type"])
	status := props["status"].(map[string]any)
	assert.Equal(t, []any{"Open", "Closed"}, status[enum.ExtensionEnumNames])
	assert.Equal(t, []any{"Open", "Closed"}, status[enum.ExtensionEnumVarNames])
	assert.Contains(t, status["description"], openFragment)
}

func TestGenerator_NestedStructsBecomeComponents(t *testing.T) {
	g := NewGenerator(ticketPipeline())

	ref, err := g.Schema(assignment{})
	require.NoError(t, err)
	assert.Equal(t, "#/components/schemas/assignment", ref.Ref)
	doc := g.Build()

	require.Contains(t, doc.Components.Schemas, "ticket")
	model := doc.Components.Schemas["assignment"].Value
	assert.Equal(t, "#/components/schemas/ticket", model.Properties["ticket"].Ref)
	assert.Equal(t, "#/components/schemas/ticket", model.Properties["watchers"].Value.Items.Ref)
	assert.Empty(t, model.Properties["assignee"].Ref)

	schemas := requireLocalRefs(t, doc)
	status := schemas["ticket"].(map[string]any)["properties"].(map[string]any)["status"].(map[string]any)
	assert.Equal(t, []any{"Open", "Closed"}, status[enum.ExtensionEnumNames])

	again, err := NewGenerator(ticketPipeline()).Schema(ticket{})
	require.NoError(t, err)
	assert.Equal(t, "#/components/schemas/ticket", again.Ref)
}

func TestGenerator_Info(t *testing.T) {
	doc := ticketDocument(t,
		WithTitle("Tickets"),
		WithVersion("v2"),
		WithTermsOfService("https://example.com/terms"),
		WithContact("Support", "https://example.com/support", "support@example.com"),
		WithLicense("MIT", "https://opensource.org/licenses/MIT"),
	)

	assert.Equal(t, "3.0.3", doc.OpenAPI)
	assert.Equal(t, "Tickets", doc.Info.Title)
	assert.Equal(t, "v2", doc.Info.Version)
	assert.Equal(t, "API for Tickets", doc.Info.Description)
	assert.Equal(t, "https://example.com/terms", doc.Info.TermsOfService)
	require.NotNil(t, doc.Info.Contact)
	assert.Equal(t, "support@example.com", doc.Info.Contact.Email)
	require.NotNil(t, doc.Info.License)
	assert.Equal(t, "MIT", doc.Info.License.Name)
}

func TestGenerator_SchemaNameOverride(t *testing.T) {
	g := NewGenerator(ticketPipeline(), WithSchemaName(ticket{}, "Ticket"))

	ref, err := g.Schema(ticket{})
	require.NoError(t, err)
	assert.Equal(t, "#/components/schemas/Ticket", ref.Ref)

	again, err := g.Schema(&ticket{})
	require.NoError(t, err)
	assert.Equal(t, ref.Ref, again.Ref)
	assert.Len(t, g.Build().Components.Schemas, 1)
}

func TestGenerator_InlineSchemas(t *testing.T) {
	g := NewGenerator(ticketPipeline())

	ref, err := g.Schema("")
	require.NoError(t, err)
	assert.Empty(t, ref.Ref)
	require.NotNil(t, ref.Value)
	assert.True(t, ref.Value.Type.Is(openapi3.TypeString))
	assert.Empty(t, g.Build().Components.Schemas)
}

func TestGenerator_Errors(t *testing.T) {
	g := NewGenerator(nil)

	_, err := g.Schema(nil)
	assert.Error(t, err)
	_, err = g.Parameter("body", "status", 0, "")
	assert.Error(t, err)
	_, err = g.Parameter(openapi3.ParameterInQuery, " ", 0, "")
	assert.Error(t, err)
	assert.Error(t, g.AddOperation("get", "/", nil))

	first := g.Build()
	assert.Same(t, first, g.Build())
	assert.ErrorIs(t, g.AddOperation("get", "/", &openapi3.Operation{}), ErrAlreadyBuilt)
	_, err = g.Schema(ticket{})
	assert.ErrorIs(t, err, ErrAlreadyBuilt)
}

func TestGenerator_PathParametersAreRequired(t *testing.T) {
	g := NewGenerator(ticketPipeline())

	p, err := g.Parameter(openapi3.ParameterInPath, "id", 0, "")
	require.NoError(t, err)
	assert.True(t, p.Value.Required)
	assert.Empty(t, p.Value.Schema.Ref)
	assert.True(t, p.Value.Schema.Value.Type.Is(openapi3.TypeInteger))
}

func TestEmit_RoundTrips(t *testing.T) {
	doc := ticketDocument(t, WithTitle("Tickets"))
	requireLocalRefs(t, doc)
	dir := t.TempDir()

	for _, name := range []string{"openapi.json", "openapi.yaml", "nested/openapi.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, Emit(path, doc))

			_, err := os.Stat(path + ".tmp")
			assert.True(t, os.IsNotExist(err))

			loaded, err := openapi3.NewLoader().LoadFromFile(path)
			require.NoError(t, err)
			param := loaded.Paths.Value("/tickets").Get.Parameters.GetByInAndName(openapi3.ParameterInQuery, "status")
			require.NotNil(t, param)
			assert.Equal(t, "Ticket status."+describe.VariantsPreamble+openFragment, param.Description)
			assert.Equal(t, "1.0.0", loaded.Info.Version)
		})
	}
}

func TestMarshal_YAMLBanner(t *testing.T) {
	doc := ticketDocument(t, WithTitle("Tickets"))

	data, err := Marshal("openapi.yaml", doc)
	require.NoError(t, err)

	text := string(data)
	assert.True(t, strings.HasPrefix(text, "# Generated by swagsummary "))
	assert.Contains(t, text, "# Project: Tickets\n")
	assert.Contains(t, text, "# OpenAPI spec version: 3.0.3\n")
	assert.NotContains(t, text, "{\"")
}

func TestMarshal_Errors(t *testing.T) {
	_, err := Marshal("openapi.txt", &openapi3.T{})
	assert.Error(t, err)
	assert.Error(t, Emit("openapi.json", nil))
	assert.Error(t, Emit(" ", &openapi3.T{}))
}

func TestRegister(t *testing.T) {
	doc := ticketDocument(t, WithTitle("Tickets"))

	require.NoError(t, Register("swagsummary-register-test", doc))
	body, err := swag.ReadDoc("swagsummary-register-test")
	require.NoError(t, err)
	assert.Contains(t, body, `"title":"Tickets"`)

	assert.Error(t, Register("swagsummary-register-test", doc))
	assert.Error(t, Register("other", nil))
}
