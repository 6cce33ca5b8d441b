package main

import (
	"bufio"
	"os"
	"strings"
	"testing"
)

// dockerInstructions returns the instructions of the final build stage,
// keyed by instruction name.
func dockerInstructions(t *testing.T) map[string][]string {
	t.Helper()

	f, err := os.Open("../../Dockerfile")
	if err != nil {
		t.Fatalf("failed to open Dockerfile: %v", err)
	}
	defer f.Close()

	var stages []map[string][]string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		instr, args, _ := strings.Cut(line, " ")
		instr = strings.ToUpper(instr)
		if instr == "FROM" {
			stages = append(stages, map[string][]string{})
		}
		if len(stages) == 0 {
			t.Fatalf("instruction before FROM: %s", line)
		}
		cur := stages[len(stages)-1]
		cur[instr] = append(cur[instr], strings.TrimSpace(args))
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("failed to read Dockerfile: %v", err)
	}
	if len(stages) == 0 {
		t.Fatal("Dockerfile has no FROM")
	}
	return stages[len(stages)-1]
}

func TestDockerfile_Runtime(t *testing.T) {
	got := dockerInstructions(t)

	tests := []struct {
		instr string
		want  []string
	}{
		{instr: "EXPOSE", want: []string{"8000"}},
		{instr: "WORKDIR", want: []string{"/app"}},
		{instr: "CMD", want: []string{`["/app/oddrafter"]`}},
		{instr: "ENV", want: []string{"GOTRACEBACK=single", "ODDRAFTER_LOG_LEVEL=info"}},
	}

	for _, tt := range tests {
		t.Run(tt.instr, func(t *testing.T) {
			if len(got[tt.instr]) != len(tt.want) {
				t.Fatalf("%s = %v, want %v", tt.instr, got[tt.instr], tt.want)
			}
			for i := range tt.want {
				if got[tt.instr][i] != tt.want[i] {
					t.Errorf("%s[%d] = %q, want %q", tt.instr, i, got[tt.instr][i], tt.want[i])
				}
			}
		})
	}
}

func TestDockerfile_BuildStage(t *testing.T) {
	data, err := os.ReadFile("../../Dockerfile")
	if err != nil {
		t.Fatalf("failed to read Dockerfile: %v", err)
	}
	content := string(data)

	for _, want := range []string{
		"COPY go.mod go.sum* ./",
		"RUN go mod download",
		"COPY . .",
		"./cmd/oddrafter",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("Dockerfile missing %q", want)
		}
	}
}

func TestSampleClausesShipped(t *testing.T) {
	info, err := os.Stat("../../data/clauses.json")
	if err != nil {
		t.Fatalf("sample clause library missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("sample clause library is empty")
	}
}
