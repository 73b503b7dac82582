// Package build turns a site configuration and its content documents into
// static pages.
//
// A build runs a fixed sequence of stages over a shared State:
//
//	load_content      discover and parse documents
//	resolve_sidebars  expand autogenerated entries and validate the navigation tree
//	render_pages      render doc pages, the homepage and the 404 page in memory
//	check_links       verify every internal link against the rendered routes
//	write_output      replace the output directory with the rendered site
//
// Stages run in order and the first fatal error stops the build. Each run is
// identified by a build id and summarized in a Report.
package build
