// seed_sets.go parses a markdown task list and creates one task set per
// section through the Arranger API.
//
// Each item line carries its attributes separated by "|":
//
//	## Week 1
//	- [ ] thesis draft | Study/work | 1 day left | Very important | Hard
//
// Usage:
//
//	go run scripts/seed_sets.go -file tasks.md -api http://localhost:8700 -arrange
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
)

type task struct {
	Description string `json:"description"`
	Type        string `json:"type"`
	Deadline    string `json:"deadline"`
	Importance  string `json:"importance"`
	Difficulty  string `json:"difficulty"`
}

type section struct {
	Name  string
	Tasks []task
}

func main() {
	path := flag.String("file", "tasks.md", "path to the markdown task list")
	apiURL := flag.String("api", "http://localhost:8700", "Arranger API base URL")
	arrange := flag.Bool("arrange", false, "arrange each set after seeding it")
	dryRun := flag.Bool("dry-run", false, "print sets without posting")
	flag.Parse()

	f, err := os.Open(*path)
	if err != nil {
		log.Fatalf("open %s: %v", *path, err)
	}
	defer f.Close()

	var sections []*section
	var current *section
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "#") {
			current = &section{Name: strings.TrimSpace(strings.TrimLeft(line, "# "))}
			sections = append(sections, current)
			continue
		}
		if !strings.HasPrefix(line, "- [") {
			continue
		}

		text := line
		for _, p := range []string{"- [ ] ", "- [x] ", "- [X] "} {
			text = strings.TrimPrefix(text, p)
		}
		parts := strings.Split(text, "|")
		if len(parts) != 5 {
			log.Printf("line %d: expected 5 fields, got %d", lineNo, len(parts))
			continue
		}
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if current == nil {
			current = &section{Name: "default"}
			sections = append(sections, current)
		}
		current.Tasks = append(current.Tasks, task{
			Description: parts[0],
			Type:        parts[1],
			Deadline:    parts[2],
			Importance:  parts[3],
			Difficulty:  parts[4],
		})
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("scan %s: %v", *path, err)
	}

	log.Printf("parsed %d sets from %s", len(sections), *path)

	if *dryRun {
		for i, s := range sections {
			fmt.Printf("[%d] %s (%d tasks)\n", i+1, s.Name, len(s.Tasks))
			for _, t := range s.Tasks {
				fmt.Printf("    %s (%s, %s, %s, %s)\n", t.Description, t.Type, t.Deadline, t.Importance, t.Difficulty)
			}
		}
		return
	}

	client := &http.Client{}
	created, skipped := 0, 0
	for _, s := range sections {
		if len(s.Tasks) == 0 {
			continue
		}
		var set struct {
			ID string `json:"set_id"`
		}
		if err := post(client, *apiURL+"/api/v1/sets", nil, http.StatusCreated, &set); err != nil {
			log.Printf("skip set %q: %v", s.Name, err)
			skipped++
			continue
		}
		for _, t := range s.Tasks {
			if err := post(client, *apiURL+"/api/v1/sets/"+set.ID+"/tasks", t, http.StatusCreated, nil); err != nil {
				log.Printf("skip task %q: %v", t.Description, err)
			}
		}
		if *arrange {
			if err := post(client, *apiURL+"/api/v1/sets/"+set.ID+"/arrange", nil, http.StatusOK, nil); err != nil {
				log.Printf("arrange %q: %v", s.Name, err)
			}
		}
		created++
	}

	log.Printf("done: %d sets created, %d skipped", created, skipped)
}

func post(client *http.Client, url string, body interface{}, want int, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequest("POST", url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		var e struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&e)
		return fmt.Errorf("status %d: %s", resp.StatusCode, e.Error)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
