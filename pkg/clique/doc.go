// Package clique searches a partition graph for its best quasi-clique.
//
// A quasi-clique is a set of core nodes together with the non-core nodes
// connected to every one of them. Each [Candidate] records, per non-core
// member, how many (core member, relation) pairs it realises; the [Scorer]
// turns sizes and that coverage into a score:
//
//	score = |core|^Alpha * |non-core|^Beta * density^Gamma
//
// where density is total coverage over the maximum the schema allows. The
// density factor is skipped when Gamma is nil.
//
// The [Search] state machine runs a bounded beam search. It seeds the beam
// with the highest-degree core nodes, then repeatedly grows every beam
// member by one node, keeping the BeamWidth best distinct core sets, until
// the best score stops improving for Patience steps or MaxEpochs steps have
// run. All randomness comes from a PCG generator seeded by [Config.Seed], so
// identical inputs yield identical results.
package clique
