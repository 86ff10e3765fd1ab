// Package export renders provisioned or live topology as JSON documents.
//
// A [Document] has the three top-level keys network, servers and router and
// is written to resultat.json by default. A [Trace] records every resource a
// run created, reused or attached so that cleanup can be scripted after a
// failed run.
package export
