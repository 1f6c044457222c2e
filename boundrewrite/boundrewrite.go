// Package boundrewrite implements the strong-bounding rewrite (§4.5): into
// every scenario graph that has at least one channel, inject a synthetic
// synchronizing actor so every execution is forced through a single token
// that bounds the whole graph. Scenario graphs without channels are left
// as they are.
//
// It is grounded directly on
// original_source/sdf3/fsmsadf/analysis/throughput/thrutils.cc's
// GraphConversion::ensureStronglyBounded: clone the graph; for each
// scenario graph, pick its first channel cf; add a "sync-actor" with a
// rate-1/1 self-loop ("sync-selfedge", one initial token) holding the
// single token the whole rewritten graph revolves around; then bypass cf
// with two new channels, "sync-src" (from cf's original source actor into
// the sync actor, rate matching cf's source port) and "sync-dst" (from the
// sync actor to cf's original destination actor, rate matching cf's
// destination port, carrying over cf's initial-token count under fresh
// persistent names). cf itself is left untouched: the rewrite adds a
// parallel synchronizing path, it does not replace the original channel.
package boundrewrite

import (
	"fmt"

	"github.com/sdf3go/fsmsadf/sadf"
)

// Rewrite returns a clone of g in which every scenario graph with at least
// one channel has been extended with a synchronizing actor (§4.5); scenario
// graphs without channels are copied unchanged. The input is never mutated.
func Rewrite(g *sadf.Graph) (*sadf.Graph, error) {
	out := g.Clone()

	for i := range out.ScenarioGraphs {
		sg := &out.ScenarioGraphs[i]
		if len(sg.Channels) == 0 {
			continue // nothing to synchronize around
		}
		rewritten, err := rewriteOne(sg, scenariosUsing(out, sadf.ScenarioGraphID(i)))
		if err != nil {
			return nil, fmt.Errorf("scenario graph %s: %w", sg.Name, err)
		}
		*sg = *rewritten
	}

	return out, nil
}

// scenariosUsing returns the names of every scenario backed by scenario
// graph id. A ScenarioGraph may back more than one Scenario (§3), so the
// sync actor's ports must carry a rate-1 entry for each of them, unlike the
// source where ensureStronglyBounded's graph clone belongs to exactly one
// scenario.
func scenariosUsing(g *sadf.Graph, id sadf.ScenarioGraphID) []string {
	var names []string
	for _, sc := range g.Scenarios {
		if sc.Graph == id {
			names = append(names, sc.Name)
		}
	}
	return names
}

// rewriteOne adds the sync actor, its self-loop, and the sync-src/sync-dst
// bypass channels to sg, for every scenario in scenarios.
func rewriteOne(sg *sadf.ScenarioGraph, scenarios []string) (*sadf.ScenarioGraph, error) {
	cf := sg.Channels[0]
	srcPort := sg.Port(cf.Src)
	dstPort := sg.Port(cf.Dst)

	b := sadf.NewScenarioGraphBuilderFrom(sg)

	sync := b.AddActor("sync-actor", "sync")
	b.SetDefaultProcessorType(sync, "sync")
	syncOut := b.AddPort(sync, "sync-out", sadf.Out)
	syncIn := b.AddPort(sync, "sync-in", sadf.In)
	for _, s := range scenarios {
		b.SetRate(sync, syncOut, s, 1)
		b.SetRate(sync, syncIn, s, 1)
		b.SetExecTime(sync, "sync", s, 0)
	}

	selfLoop := b.AddChannel("sync-selfedge",
		sadf.PortRef{Actor: sync, Port: syncOut}, sadf.PortRef{Actor: sync, Port: syncIn}, 1, 0)
	b.SetPersistentInitialNames(selfLoop, []string{"sync-selfedge-persistent-token"})

	// sync-src: cf's original source actor -> sync actor, on brand-new ports
	// (cf's own ports stay wired to cf, which is left in place).
	srcOut := b.AddPort(cf.Src.Actor, "sync-src-out", sadf.Out)
	for s, rate := range srcPort.Rate {
		b.SetRate(cf.Src.Actor, srcOut, s, rate)
	}
	syncIn2 := b.AddPort(sync, "sync-from-src", sadf.In)
	for _, s := range scenarios {
		b.SetRate(sync, syncIn2, s, 1)
	}
	b.AddChannel("sync-src",
		sadf.PortRef{Actor: cf.Src.Actor, Port: srcOut}, sadf.PortRef{Actor: sync, Port: syncIn2}, 0, 0)

	// sync-dst: sync actor -> cf's original destination actor, carrying
	// over cf's initial token count under fresh persistent names.
	syncOut2 := b.AddPort(sync, "sync-to-dst", sadf.Out)
	for _, s := range scenarios {
		b.SetRate(sync, syncOut2, s, 1)
	}
	dstIn := b.AddPort(cf.Dst.Actor, "sync-dst-in", sadf.In)
	for s, rate := range dstPort.Rate {
		b.SetRate(cf.Dst.Actor, dstIn, s, rate)
	}
	syncDst := b.AddChannel("sync-dst",
		sadf.PortRef{Actor: sync, Port: syncOut2}, sadf.PortRef{Actor: cf.Dst.Actor, Port: dstIn},
		cf.InitialTokens, 0)
	names := make([]string, cf.InitialTokens)
	for j := range names {
		names[j] = fmt.Sprintf("sync-dst-persistent-%d", j)
	}
	b.SetPersistentInitialNames(syncDst, names)

	return b.Build()
}
