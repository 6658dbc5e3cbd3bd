package dsl

import (
	"syncreach/marking"
	"syncreach/petrinet"
)

// Transform resolves a parsed rawInput into a *petrinet.Net: it builds the
// place→module index, classifies each transition as extern (referenced by
// more than one module) or internal, assigns ids, and wires each module's
// places with their input/output transition arcs (spec.md §6).
//
// Grounded on original_source/src/parser/transform_input.rs's `transform`
// and `build_module`, kept structurally close: place-to-module map first,
// then a single pass over transitions to classify and bucket them per
// module, then one build_module-equivalent pass per module, then the
// extern_overview scan.
func Transform(in *rawInput) (*petrinet.Net, error) {
	placeToModule := make(map[string]int)
	for mi, m := range in.modules {
		for _, p := range m.places {
			placeToModule[p.name] = mi
		}
	}

	externID := make(map[string]uint32)
	externNames := []string{}
	moduleTransitions := make([][]*rawTransition, len(in.modules))

	for i := range in.transitions {
		tr := &in.transitions[i]
		belongsTo, err := transitionModules(tr, placeToModule)
		if err != nil {
			return nil, err
		}
		if len(belongsTo) > 1 {
			if _, ok := externID[tr.name]; !ok {
				externID[tr.name] = uint32(len(externNames))
				externNames = append(externNames, tr.name)
			}
		}
		for mi := range belongsTo {
			moduleTransitions[mi] = append(moduleTransitions[mi], tr)
		}
	}

	internStart := uint32(len(externNames))

	modules := make([]petrinet.Module, len(in.modules))
	initialMarkings := make([]marking.Marking, len(in.modules))
	for mi, rm := range in.modules {
		mod, mk := buildModule(rm, moduleTransitions[mi], uint16(mi), externID, internStart)
		modules[mi] = mod
		initialMarkings[mi] = mk
	}

	externOverview := make([][]uint16, internStart)
	for ti := uint32(0); ti < internStart; ti++ {
		for mi := range modules {
			t := modules[mi].Transition(ti)
			if !t.IsPlaceholder() {
				externOverview[ti] = append(externOverview[ti], uint16(mi))
			}
		}
	}

	return &petrinet.Net{
		Modules:         modules,
		InitialMarkings: initialMarkings,
		InternStart:     internStart,
		ExternOverview:  externOverview,
		ExternNames:     externNames,
	}, nil
}

// transitionModules returns the set of module indices a transition's places
// resolve to. A place absent from every module is a reference error
// (spec.md §7).
func transitionModules(tr *rawTransition, placeToModule map[string]int) (map[int]struct{}, error) {
	belongsTo := make(map[int]struct{})
	for _, p := range tr.inputs {
		mi, ok := placeToModule[p.name]
		if !ok {
			return nil, &ErrUnknownPlace{Place: p.name}
		}
		belongsTo[mi] = struct{}{}
	}
	for _, p := range tr.outputs {
		mi, ok := placeToModule[p.name]
		if !ok {
			return nil, &ErrUnknownPlace{Place: p.name}
		}
		belongsTo[mi] = struct{}{}
	}
	return belongsTo, nil
}

// buildModule assembles one module's Place/Transition tables and initial
// marking, mirroring transform_input.rs's build_module: places get
// sequential ids in declaration order, extern transitions are seeded as
// placeholders at their reserved ids first and then overwritten for the
// ones this module actually references, internal transitions receive the
// next free id after internStart.
func buildModule(rm rawModule, transitions []*rawTransition, id uint16, externID map[string]uint32, internStart uint32) (petrinet.Module, marking.Marking) {
	placeIndex := make(map[string]uint32, len(rm.places))
	places := make([]petrinet.Place, len(rm.places))
	var mk marking.Marking
	for i, p := range rm.places {
		placeIndex[p.name] = uint32(i)
		places[i] = petrinet.Place{ID: uint32(i), Name: p.name}
		if p.weight > 0 {
			mk.Update(marking.PlaceID(i), p.weight, true)
		}
	}

	tslots := make([]petrinet.Transition, internStart)
	for i := range tslots {
		tslots[i] = petrinet.Transition{ID: uint32(i)}
	}

	for _, rt := range transitions {
		var tid uint32
		if eid, ok := externID[rt.name]; ok {
			tid = eid
		} else {
			tid = uint32(len(tslots))
		}

		trans := petrinet.Transition{ID: tid, Name: rt.name}
		trans.InputPlaces = resolvePlaces(rt.inputs, placeIndex)
		trans.OutputPlaces = resolvePlaces(rt.outputs, placeIndex)

		for _, in := range trans.InputPlaces {
			places[in.Place].OutputTransitions = append(places[in.Place].OutputTransitions, petrinet.Arc{Transition: tid, Weight: in.Weight})
		}
		for _, out := range trans.OutputPlaces {
			places[out.Place].InputTransitions = append(places[out.Place].InputTransitions, petrinet.Arc{Transition: tid, Weight: out.Weight})
		}

		if int(tid) >= len(tslots) {
			tslots = append(tslots, trans)
		} else {
			tslots[tid] = trans
		}
	}

	return petrinet.Module{ID: id, Name: rm.name, Places: places, Transitions: tslots}, mk
}

func resolvePlaces(raw []rawPlace, placeIndex map[string]uint32) []petrinet.PlaceArc {
	if len(raw) == 0 {
		return nil
	}
	out := make([]petrinet.PlaceArc, 0, len(raw))
	for _, p := range raw {
		if pid, ok := placeIndex[p.name]; ok {
			out = append(out, petrinet.PlaceArc{Place: pid, Weight: p.weight})
		}
	}
	return out
}
