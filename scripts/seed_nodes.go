// seed_nodes.go loads node usage snapshots from a YAML file into a running placement API.
//
// Usage:
//
//	go run scripts/seed_nodes.go -file nodes.yaml -api http://localhost:8700 -token $PLACEMENT_ADMIN_TOKEN
//
// The file holds a list of nodes:
//
//	- {name: pve1, cpu: 1.5, maxcpu: 8, mem: 4294967296, maxmem: 17179869184}
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type nodeUsage struct {
	Name   string  `yaml:"name" json:"-"`
	CPU    float64 `yaml:"cpu" json:"cpu"`
	MaxCPU int     `yaml:"maxcpu" json:"maxcpu"`
	Mem    int64   `yaml:"mem" json:"mem"`
	MaxMem int64   `yaml:"maxmem" json:"maxmem"`
}

func main() {
	file := flag.String("file", "nodes.yaml", "path to YAML node list")
	apiURL := flag.String("api", "http://localhost:8700", "placement API base URL")
	token := flag.String("token", os.Getenv("PLACEMENT_ADMIN_TOKEN"), "admin bearer token")
	dryRun := flag.Bool("dry-run", false, "print nodes without sending")
	flag.Parse()

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("read %s: %v", *file, err)
	}
	var nodes []nodeUsage
	if err := yaml.Unmarshal(data, &nodes); err != nil {
		log.Fatalf("parse %s: %v", *file, err)
	}

	log.Printf("parsed %d nodes from %s", len(nodes), *file)

	if *dryRun {
		for i, n := range nodes {
			fmt.Printf("[%d] %s cpu=%.2f/%d mem=%d/%d\n", i+1, n.Name, n.CPU, n.MaxCPU, n.Mem, n.MaxMem)
		}
		return
	}

	client := &http.Client{Timeout: 10 * time.Second}
	stored, skipped := 0, 0
	for _, n := range nodes {
		if n.Name == "" {
			log.Printf("skip node without name")
			skipped++
			continue
		}
		body, _ := json.Marshal(n)
		req, err := http.NewRequest(http.MethodPut, *apiURL+"/api/v1/nodes/"+url.PathEscape(n.Name), bytes.NewReader(body))
		if err != nil {
			log.Printf("skip %q: %v", n.Name, err)
			skipped++
			continue
		}
		req.Header.Set("Content-Type", "application/json")
		if *token != "" {
			req.Header.Set("Authorization", "Bearer "+*token)
		}

		resp, err := client.Do(req)
		if err != nil {
			log.Printf("skip %q: %v", n.Name, err)
			skipped++
			continue
		}
		resp.Body.Close()

		if resp.StatusCode == http.StatusOK {
			stored++
		} else {
			log.Printf("skip %q: status %d", n.Name, resp.StatusCode)
			skipped++
		}
	}

	log.Printf("done: %d stored, %d skipped", stored, skipped)
}
