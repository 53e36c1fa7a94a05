package export_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/tatami/pkg/domain"
	"github.com/aretw0/tatami/pkg/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var exportDay = time.Date(2024, 3, 9, 15, 4, 5, 0, time.UTC)

func readCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestSequences(t *testing.T) {
	w := 2.5
	seq := &domain.Sequence{
		ID:        "hb",
		Name:      "Half-Butterfly, left side",
		Hub:       "Half-Butterfly",
		Tags:      []string{"guard"},
		KeyIdeas:  []string{`Say "hi"`},
		PhaseGate: domain.PhaseGates(),
		Nodes: []domain.Node{
			{ID: "HUB", Label: "Hub", IsHub: true, Actions: []string{"Underhook"}},
		},
		Edges: []domain.Edge{
			{FromID: "HUB", ToID: "SWEEP", OpponentReaction: "Posts", MyResponse: "Elevate", Priority: domain.PriorityA, FreqWeight: &w},
			{FromID: "HUB", ToID: "BACK"},
		},
		CreatedBy: "me",
		CreatedAt: 1700000000000,
		UpdatedAt: 1700000000000,
	}

	files, err := export.Sequences([]*domain.Sequence{seq}, exportDay)
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, "sequences_2024-03-09.csv", files[0].Name)
	assert.Equal(t, "sequence_nodes_2024-03-09.csv", files[1].Name)
	assert.Equal(t, "sequence_edges_2024-03-09.csv", files[2].Name)

	seqRows := readCSV(t, files[0].Data)
	require.Len(t, seqRows, 2)
	assert.Equal(t, "id", seqRows[0][0])
	assert.Equal(t, "Half-Butterfly, left side", seqRows[1][1])
	assert.Equal(t, `["Say \"hi\""]`, seqRows[1][4])
	assert.Equal(t, seqRows[1][4], seqRows[1][5], "legacy column mirrors key ideas")
	assert.Equal(t, "2023-11-14T22:13:20.000Z", seqRows[1][8])
	assert.Equal(t, "false", seqRows[1][10])
	assert.Equal(t, "embedded", seqRows[1][11])

	nodeRows := readCSV(t, files[1].Data)
	require.Len(t, nodeRows, 2)
	assert.Equal(t, []string{"hb", "HUB", "Hub", "null", `["Underhook"]`, `["Underhook"]`, "null", "true", "null", "null"}, nodeRows[1])

	edgeRows := readCSV(t, files[2].Data)
	require.Len(t, edgeRows, 3)
	assert.Equal(t, []string{"hb", "HUB", "SWEEP", "Posts", "Elevate", "A", "2.5", ""}, edgeRows[1])
	assert.Equal(t, "", edgeRows[2][6], "absent weight stays blank")
}

func TestTechniques(t *testing.T) {
	tech := &domain.Technique{
		ID:        "t1",
		Name:      "Knee Cut",
		Movements: [domain.MovementSlots]string{"Underhook", "Crossface"},
		Tags:      []string{"passing", "half guard"},
		CreatedAt: 1700000000000,
	}

	f, err := export.Techniques([]*domain.Technique{tech}, exportDay)
	require.NoError(t, err)
	assert.Equal(t, "techniques_2024-03-09.csv", f.Name)

	rows := readCSV(t, f.Data)
	require.Len(t, rows, 2)
	assert.Len(t, rows[0], 21)
	assert.Len(t, rows[1], 21)
	assert.Equal(t, "Underhook", rows[1][9])
	assert.Equal(t, "", rows[1][14])
	assert.Equal(t, "passing | half guard", rows[1][17])
	assert.Equal(t, "2023-11-14 22:13:20", rows[1][18])
	assert.Equal(t, "", rows[1][19])
}

func curriculumFixture() export.CurriculumBundle {
	dur := 45
	return export.CurriculumBundle{
		Curriculum: &domain.Curriculum{ID: "c1", Name: "Fundamentals: Week 1"},
		Lessons: []*domain.Lesson{
			{ID: "l1", CurriculumID: "c1", Order: 1, Title: "Guard", DurationMinutes: &dur, Items: []string{"t1", "ghost"}},
			{ID: "l2", CurriculumID: "c1", Order: 2, Notes: "Open mat"},
		},
		Techniques: map[string]*domain.Technique{
			"t1": {ID: "t1", Name: "Knee Cut", Tags: []string{"passing"}, Objective: "Pass"},
		},
	}
}

func TestCurriculumCSV(t *testing.T) {
	f, err := export.CurriculumCSV(curriculumFixture())
	require.NoError(t, err)
	assert.Equal(t, "curriculum_Fundamentals_Week_1_c1.csv", f.Name)

	rows := readCSV(t, f.Data)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Fundamentals: Week 1", "1", "Guard", "45", "t1", "Knee Cut", "passing", "Pass", ""}, rows[1])
	assert.Equal(t, []string{"Fundamentals: Week 1", "1", "Guard", "45", "ghost", "", "", "", ""}, rows[2])
	assert.Equal(t, []string{"Fundamentals: Week 1", "2", "", "", "", "", "", "", "Open mat"}, rows[3])
}

func TestLessonFiles(t *testing.T) {
	b := curriculumFixture()

	f, err := export.LessonCSV(b.Lessons[0], b.Techniques, "")
	require.NoError(t, err)
	assert.Equal(t, "lesson_Guard_l1.csv", f.Name)

	j, err := export.LessonJSON(b.Lessons[0], b.Techniques, b.Curriculum.Name)
	require.NoError(t, err)
	assert.Equal(t, "Fundamentals_Week_1__lesson_Guard_l1.json", j.Name)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(j.Data, &payload))
	assert.Equal(t, "lesson", payload["type"])
	assert.EqualValues(t, 1, payload["version"])
	assert.Equal(t, "Fundamentals: Week 1", payload["curriculumName"])
}

func TestCurriculumJSON(t *testing.T) {
	b := curriculumFixture()
	b.Techniques = nil

	f, err := export.CurriculumJSON(b)
	require.NoError(t, err)
	assert.Equal(t, "curriculum_Fundamentals_Week_1_c1.json", f.Name)

	var payload struct {
		Type       string         `json:"type"`
		Version    int            `json:"version"`
		Lessons    []any          `json:"lessons"`
		Techniques map[string]any `json:"techniques"`
	}
	require.NoError(t, json.Unmarshal(f.Data, &payload))
	assert.Equal(t, "curriculum", payload.Type)
	assert.Equal(t, 1, payload.Version)
	assert.Len(t, payload.Lessons, 2)
	assert.NotNil(t, payload.Techniques)
}

func TestSafeName(t *testing.T) {
	assert.Equal(t, "Half-Butterfly_v2", export.SafeName("Half-Butterfly v2"))
	assert.Equal(t, "_", export.SafeName("  !! "))
	assert.Len(t, export.SafeName(string(bytes.Repeat([]byte("a"), 100))), 60)
}

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	paths, err := export.Write(dir, export.File{Name: "a.csv", Data: []byte("x\n")})
	require.NoError(t, err)
	require.Len(t, paths, 1)

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Equal(t, "x\n", string(data))
}
