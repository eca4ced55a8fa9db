package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/shapecache/catalog"
	"github.com/milk9111/shapecache/config"
	"github.com/milk9111/shapecache/physics"
)

type bodyReport struct {
	Name    string  `json:"name"`
	Source  string  `json:"source"`
	Dynamic bool    `json:"dynamic"`
	Mass    float64 `json:"mass"`
	Moment  float64 `json:"moment"`
	Shapes  int     `json:"shapes"`

	// SpaceMass is the mass cp reports once the body's shapes are in a space.
	SpaceMass float64 `json:"space_mass"`
}

func main() {
	configPath := flag.String("config", "", "YAML config file (embedded defaults when empty)")
	mode := flag.String("mode", "", "accuracy mode override: collision_only or mass_accurate")
	asJSON := flag.Bool("json", false, "print the report as JSON")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *mode != "" {
		cfg.Catalog.Mode = *mode
		if err := cfg.Validate(); err != nil {
			log.Fatal(err)
		}
	}

	docs := flag.Args()
	if len(docs) == 0 {
		docs = cfg.Catalog.Documents
	}

	c := catalog.New(cfg.Options())
	failed := false
	for _, doc := range docs {
		if err := c.Load(doc); err != nil {
			log.Print(err)
			failed = true
		}
	}

	reports := buildReport(c)
	if *asJSON {
		err = writeJSON(os.Stdout, reports)
	} else {
		err = writeTable(os.Stdout, reports)
	}
	if err != nil {
		log.Fatal(err)
	}
	if failed {
		os.Exit(1)
	}
}

// buildReport instantiates every template in a scratch space.
func buildReport(c *catalog.Catalog) []bodyReport {
	factory := physics.NewFactory(c)
	space := cp.NewSpace()

	names := c.Names()
	out := make([]bodyReport, 0, len(names))
	for _, name := range names {
		tmpl, ok := c.Lookup(name)
		if !ok {
			continue
		}
		r := bodyReport{
			Name:    name,
			Source:  tmpl.Source,
			Dynamic: tmpl.IsDynamic,
			Mass:    tmpl.Mass,
			Moment:  tmpl.Moment,
		}
		if body, ok := factory.CreateBody(name); ok {
			r.Shapes = len(body.Shapes)
			body.AddToSpace(space)
			if tmpl.IsDynamic {
				r.SpaceMass = body.Body.Mass()
			}
			body.RemoveFromSpace(space)
		}
		out = append(out, r)
	}
	return out
}

func writeTable(w io.Writer, reports []bodyReport) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSOURCE\tDYNAMIC\tMASS\tMOMENT\tSHAPES\tSPACE MASS")
	for _, r := range reports {
		fmt.Fprintf(tw, "%s\t%s\t%v\t%.4g\t%.4g\t%d\t%.4g\n", r.Name, r.Source, r.Dynamic, r.Mass, r.Moment, r.Shapes, r.SpaceMass)
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, reports []bodyReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(reports)
}
