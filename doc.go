// Package pgmodeler holds the core domain types for reverse engineering
// a relational database into a structural model: catalog object types
// and their import ordering, attribute maps in the shape the schema
// parser consumes, database backend registration, object filters and
// project configuration.
//
// The catalog reader lives in the catalog package, backends under
// databases/, the import engine in importer and the schema template
// language in schemalang.
package pgmodeler
