/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package relay

import (
	"encoding/json"
	"fmt"
	"maps"

	"github.com/Seednode/happyhour/session"
)

// projectLocked renders one game_state frame per seated member. Every frame
// shares the engine's public view; each adds only that slot's private view.
func projectLocked(r *session.Room) (map[int][]byte, error) {
	shared := make(map[string]json.RawMessage)

	engine := r.EngineLocked()
	if engine == nil {
		shared["state"] = json.RawMessage(`"waiting"`)
	} else if err := mergeInto(shared, engine.PublicView()); err != nil {
		return nil, fmt.Errorf("public view: %w", err)
	}

	if err := setField(shared, "type", "game_state"); err != nil {
		return nil, err
	}
	if err := setField(shared, "game_type", r.Variant()); err != nil {
		return nil, err
	}
	if err := setField(shared, "player_names", r.NamesLocked()); err != nil {
		return nil, err
	}

	members := r.MembersLocked()

	out := make(map[int][]byte, len(members))
	for _, m := range members {
		view := maps.Clone(shared)

		if engine != nil {
			if err := mergeInto(view, engine.PrivateView(m.Slot)); err != nil {
				return nil, fmt.Errorf("private view for slot %d: %w", m.Slot, err)
			}
		}

		b, err := json.Marshal(view)
		if err != nil {
			return nil, err
		}
		out[m.Slot] = b
	}

	return out, nil
}

// mergeInto copies the top-level fields of v's JSON object form into dst.
func mergeInto(dst map[string]json.RawMessage, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}

	maps.Copy(dst, fields)

	return nil
}

func setField(dst map[string]json.RawMessage, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	dst[key] = b

	return nil
}
