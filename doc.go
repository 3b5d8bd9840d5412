// Package visualquery builds InTaVia entity searches from typed constraints.
//
// The Builder composes the same constraints the visual query editor offers
// (name, birth and death ranges, drawn places, occupations, entity kinds)
// and compiles them into search parameters. The Client runs the compiled
// query and the statistics aggregates against an entity API.
//
//	q := visualquery.NewQuery().
//		Name("Mozart").
//		Kinds("person").
//		BornBetween(from, to)
//	page, err := client.Search(ctx, q)
package visualquery
