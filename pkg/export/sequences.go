package export

import (
	"strconv"
	"time"

	"github.com/aretw0/tatami/pkg/domain"
)

var (
	sequenceHeader = []string{
		"id", "name", "hub", "tags_json", "key_ideas_json", "cues_global_json",
		"phase_gate_json", "createdBy", "createdAt_iso", "updatedAt_iso",
		"isArchived", "storageMode",
	}
	nodeHeader = []string{
		"sequenceId", "nodeId", "label", "position_tag_json", "actions_json",
		"cues_json", "phase_gate_json", "isHub", "techniqueIds_json", "videoRefs_json",
	}
	edgeHeader = []string{
		"sequenceId", "fromId", "toId", "opponent_reaction", "my_response",
		"priority", "freq_weight", "notes",
	}
)

// Sequences renders the three sequence CSVs (documents, nodes, edges) stamped
// with the date of now. Legacy cue columns repeat the canonical values so
// older importers keep working.
func Sequences(seqs []*domain.Sequence, now time.Time) ([]File, error) {
	stamp := DateStamp(now)

	seqRows := [][]string{sequenceHeader}
	nodeRows := [][]string{nodeHeader}
	edgeRows := [][]string{edgeHeader}

	for _, s := range seqs {
		storage := s.StorageMode
		if storage == "" {
			storage = domain.StorageModeEmbedded
		}
		seqRows = append(seqRows, []string{
			s.ID,
			s.Name,
			s.Hub,
			jsonCell(s.Tags),
			jsonCell(s.KeyIdeas),
			jsonCell(s.KeyIdeas),
			jsonCell(s.PhaseGate),
			s.CreatedBy,
			isoMillis(s.CreatedAt),
			isoMillis(s.UpdatedAt),
			strconv.FormatBool(s.IsArchived),
			storage,
		})

		for _, n := range s.Nodes {
			nodeRows = append(nodeRows, []string{
				s.ID,
				n.ID,
				n.Label,
				jsonCell(n.PositionTags),
				jsonCell(n.Actions),
				jsonCell(n.Actions),
				jsonCell(n.PhaseGates),
				strconv.FormatBool(n.IsHub),
				jsonCell(n.TechniqueIDs),
				jsonCell(n.VideoRefs),
			})
		}

		for _, e := range s.Edges {
			weight := ""
			if e.FreqWeight != nil {
				weight = strconv.FormatFloat(*e.FreqWeight, 'f', -1, 64)
			}
			edgeRows = append(edgeRows, []string{
				s.ID,
				e.FromID,
				e.ToID,
				e.OpponentReaction,
				e.MyResponse,
				string(e.Priority),
				weight,
				e.Notes,
			})
		}
	}

	files := []struct {
		name string
		rows [][]string
	}{
		{"sequences_" + stamp + ".csv", seqRows},
		{"sequence_nodes_" + stamp + ".csv", nodeRows},
		{"sequence_edges_" + stamp + ".csv", edgeRows},
	}

	out := make([]File, 0, len(files))
	for _, f := range files {
		data, err := encodeCSV(f.rows)
		if err != nil {
			return nil, err
		}
		out = append(out, File{Name: f.name, Data: data})
	}
	return out, nil
}
