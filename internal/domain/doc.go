// Package domain turns reverse-geocoded Brazilian addresses into structured
// postal components.
//
// # Data Source
//
// Field-survey exports carry one latitude/longitude pair per establishment.
// Each pair is reverse geocoded (Google Maps or Mapbox) into a single-line
// formatted address. Providers nest components most-specific-first:
//
//	"<street>, <number> - <neighborhood>, <city> - <UF>, <CEP>, <country>"
//	e.g. "Tv. Djalma Dutra, 123 - Pedreira, Belém - PA, 66083-030, Brazil"
//
// Real results routinely omit pieces ("Rua Sem Número, Ananindeua"), use a
// long state form ("Marituba, State of Pará, Brazil") or drop the comma in
// front of the city ("Cidade Nova, Ananindeua - PA").
//
// # Decomposition
//
// [Decompose] peels components off the tail, most general first:
//
//	country      trailing "Brazil" / "Brasil", any case
//	postal code  trailing DDDDD-DDD, DDDDD DDD or DDDDDDDD
//	state        trailing two-letter UF after a separator, else "State of Pará" -> PA
//	municipality text after the last comma, else a known city suffix
//	neighborhood text after the last " - "
//	number       text after the last comma
//	street       whatever remains
//
// Each stage removes what it consumed, so no two fields share source text.
// There is no backtracking: a stage that does not match leaves its field nil
// and hands the remainder on unchanged.
//
// A bare place name with no delimiter (e.g. "Castanhal") is not recognised as
// a municipality unless it is in the known-city list; it ends up as the street.
//
// # Sentinels
//
// When no address can be produced the address cell holds a placeholder such
// as "No address found", "Error: <reason>" or "Mock Address (No API Key)".
// [Decompose] returns an empty [ParsedAddress] for those, for blank input and,
// via [DecomposeValue], for non-string input. Other placeholders
// ("No results", "Invalid Coordinates", ...) are decomposed like any other
// text.
//
// # Column Labels
//
// Parsed fields are persisted under the Portuguese labels Logradouro, Número,
// Bairro, Município, Estado, CEP and País, in that order. See [Field.Label].
package domain
