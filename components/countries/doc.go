// Package countries provides deterministic ISO 3166-1 country data, search
// helpers, and a small net/http handler that returns JSON options for form
// select fields (the visa form's nationality select is the canonical
// consumer).
//
// The default handler responds to GET and HEAD requests and supports query
// and limit parameters to filter results. The backing data is loaded from the
// embedded list under data/iso_countries.txt.
package countries
