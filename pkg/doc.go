// Package pkg provides the libraries behind wikimap, a Wikipedia mind map
// generator.
//
// # Overview
//
// Wikimap reads an article's section headings and follows each section's
// "main article" callout into the linked article, grafting that article's
// sections under the heading. The result is a tree of headings drawn as a
// mind map. The pkg directory is organized by concern:
//
//  1. Domain: [mindmap] (tree store), [crawl] (hierarchy builder),
//     [layout] (scales and colors), [document], [locale], [wikiurl]
//  2. Infrastructure: [cache], [snapshot], [config], [observability]
//  3. Integrations: [integrations] (HTTP client) and its wikipedia fetcher
//  4. Orchestration: [pipeline] (crawl, lay out, cache, render)
//  5. Surfaces: [io] (TreeModel JSON/YAML), [render] (DOT/SVG/PDF/PNG),
//     [server] (HTTP API)
//
// # Architecture
//
//	Wikipedia article URL
//	         ↓
//	    [crawl] (fetch pages, extract headings, follow callouts)
//	         ↓
//	    [mindmap] (parent-linked node tree)
//	         ↓
//	    [layout] (scale per depth, hue per branch)
//	         ↓
//	    TreeModel JSON / YAML / DOT / SVG / PDF / PNG
//
// # Quick Start
//
//	client := wikipedia.NewClient(cache.NewNullCache(), cache.TTLPage, wikipedia.Options{})
//	runner := pipeline.NewRunner(client, nil, nil, nil)
//	res, err := runner.Generate(ctx, pipeline.Options{
//	    URL:      "https://en.wikipedia.org/wiki/Mind_map",
//	    MaxDepth: 3,
//	})
//	if err != nil {
//	    return err
//	}
//	svg, err := pipeline.Render(ctx, res.Graph, pipeline.FormatSVG, pipeline.RenderOptions{})
//
// [mindmap]: github.com/matzehuels/wikimap/pkg/mindmap
// [crawl]: github.com/matzehuels/wikimap/pkg/crawl
// [layout]: github.com/matzehuels/wikimap/pkg/layout
// [document]: github.com/matzehuels/wikimap/pkg/document
// [locale]: github.com/matzehuels/wikimap/pkg/locale
// [wikiurl]: github.com/matzehuels/wikimap/pkg/wikiurl
// [cache]: github.com/matzehuels/wikimap/pkg/cache
// [snapshot]: github.com/matzehuels/wikimap/pkg/snapshot
// [config]: github.com/matzehuels/wikimap/pkg/config
// [observability]: github.com/matzehuels/wikimap/pkg/observability
// [integrations]: github.com/matzehuels/wikimap/pkg/integrations
// [pipeline]: github.com/matzehuels/wikimap/pkg/pipeline
// [io]: github.com/matzehuels/wikimap/pkg/io
// [render]: github.com/matzehuels/wikimap/pkg/render
// [server]: github.com/matzehuels/wikimap/pkg/server
package pkg
