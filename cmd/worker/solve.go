package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/GoSim-25-26J-441/project-selection-backend/internal/assignment"
)

// solveReport is the printed outcome of `worker solve`.
type solveReport struct {
	MatrixSize  int           `json:"matrix_size" yaml:"matrix_size"`
	FillValue   int           `json:"fill_value" yaml:"fill_value"`
	TotalCost   int           `json:"total_cost" yaml:"total_cost"`
	RealCost    int           `json:"real_cost" yaml:"real_cost"`
	Assignments []solveResult `json:"assignments" yaml:"assignments"`
}

type solveResult struct {
	ProjectID   int64   `json:"project_id" yaml:"project_id"`
	ProjectName string  `json:"project_name,omitempty" yaml:"project_name,omitempty"`
	PersonID    *string `json:"person_id" yaml:"person_id"`
	PersonName  string  `json:"person_name,omitempty" yaml:"person_name,omitempty"`
	Rank        *int    `json:"rank,omitempty" yaml:"rank,omitempty"`
}

func (c *cli) newSolveCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "solve <snapshot.yaml|snapshot.json|->",
		Short: "Compute the optimal assignment for a snapshot file",
		Long: `Reads a snapshot (projects, people, preferences) in YAML or JSON and prints
the assignment that minimizes the total rank. Use - to read standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "yaml" && output != "json" {
				return fmt.Errorf("unknown output format %q", output)
			}

			snap, err := readSnapshot(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			res, err := assignment.Compute(snap)
			if err != nil {
				return fmt.Errorf("solve: %w", err)
			}
			c.logger.Debug("snapshot solved",
				zap.Int("matrix_size", res.MatrixSize),
				zap.Int("total_cost", res.TotalCost),
				zap.Int("assigned", res.AssignedCount()),
			)

			return writeReport(cmd.OutOrStdout(), output, buildReport(snap, res))
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "yaml", "output format: yaml or json")
	return cmd
}

func readSnapshot(stdin io.Reader, path string) (assignment.Snapshot, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return assignment.Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}

	// JSON documents are valid YAML.
	var snap assignment.Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return assignment.Snapshot{}, fmt.Errorf("parse snapshot: %w", err)
	}
	return snap, nil
}

func buildReport(snap assignment.Snapshot, res assignment.Result) solveReport {
	projectNames := make(map[assignment.ProjectID]string, len(snap.Projects))
	for _, p := range snap.Projects {
		projectNames[p.ID] = p.Name
	}
	personNames := make(map[assignment.PersonID]string, len(snap.People))
	for _, p := range snap.People {
		personNames[p.ID] = p.Name
	}
	ranks := make(map[assignment.ProjectID]map[assignment.PersonID]int)
	for _, pref := range snap.Preferences {
		if ranks[pref.ProjectID] == nil {
			ranks[pref.ProjectID] = make(map[assignment.PersonID]int)
		}
		ranks[pref.ProjectID][pref.PersonID] = pref.Rank
	}

	report := solveReport{
		MatrixSize:  res.MatrixSize,
		FillValue:   res.FillValue,
		TotalCost:   res.TotalCost,
		RealCost:    res.RealCost,
		Assignments: make([]solveResult, 0, len(res.Assignments)),
	}
	for projectID, personID := range res.Assignments {
		line := solveResult{ProjectID: int64(projectID), ProjectName: projectNames[projectID]}
		if personID != nil {
			id := string(*personID)
			line.PersonID = &id
			line.PersonName = personNames[*personID]
			if rank, ok := ranks[projectID][*personID]; ok {
				line.Rank = &rank
			}
		}
		report.Assignments = append(report.Assignments, line)
	}
	sort.Slice(report.Assignments, func(i, j int) bool {
		return report.Assignments[i].ProjectID < report.Assignments[j].ProjectID
	})
	return report
}

func writeReport(w io.Writer, format string, report solveReport) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return err
	}
	return enc.Close()
}
