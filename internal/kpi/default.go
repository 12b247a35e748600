package kpi

// Default returns the built-in 13-KPI executive taxonomy. Names are kept
// verbatim from the accumulated summary tables, so renaming one breaks
// history joins. Keyword lists are curated so that specific phrases are
// reachable before generic ones; a generic word placed too early would
// steal matches from every KPI after it.
func Default() *Taxonomy {
	t, err := New([]KPI{
		{
			Name:     "Service summary",
			Keywords: []string{"service summary", "service summey", "service overview"},
		},
		{
			Name:     "Service Data Quality and Service Readiness",
			Keywords: []string{"service data quality", "service readiness"},
		},
		{
			Name:     "Software Configuration for A1C",
			Keywords: []string{"software configuration", "configuration for a1c"},
		},
		{
			Name: "Hardware Capacity",
			Keywords: []string{
				"hardware capacity", "cpu capacity", "disk capacity",
				"hardware", "cpu", "disk", "memory", "capacity",
			},
		},
		{
			Name: "Performance Overview A1C",
			Keywords: []string{
				"performance overview", "dialog response", "response time",
				"dialog", "cpu load",
			},
		},
		{
			Name: "SAP System Operating A1C",
			Keywords: []string{
				"system operating", "system operation", "background jobs",
			},
		},
		{
			Name: "Security",
			Keywords: []string{
				"security", "authorization", "password", "tls", "ssl", "vulnerab",
			},
		},
		{
			Name: "Software Change and Transport Management of A1C",
			Keywords: []string{
				"transport management", "software change", "change management",
				"transport", "stms",
			},
		},
		{
			Name:     "Financial Data Quality",
			Keywords: []string{"financial data quality", "financial"},
		},
		{
			Name: "Upgrade Planning",
			Keywords: []string{
				"upgrade planning", "maintenance strategy", "upgrade", "maintenance",
			},
		},
		{
			Name: "SAP HANA Database A1H",
			Keywords: []string{
				"sap hana database", "hana", "hdb", "index server",
			},
		},
		{
			Name: "SAP Netwear gateway",
			Keywords: []string{
				"netweaver gateway", "netwear gateway", "gateway", "netweaver",
			},
		},
		{
			Name:     "UI Technologies checks",
			Keywords: []string{"ui technologies", "fiori", "web dynpro"},
		},
	})
	if err != nil {
		// The built-in table is static; a validation failure here is a
		// programming error.
		panic(err)
	}
	return t
}
