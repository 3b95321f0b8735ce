package workflow

// syntheticOutput produces the per-type mock payload for a successful node.
func syntheticOutput(node Node, snap *Snapshot) map[string]interface{} {
	out := map[string]interface{}{
		"nodeId": node.ID,
		"applet": string(node.Type),
	}

	switch node.Type {
	case AppletPriceMonitor:
		if snap != nil && snap.OraclePrice != nil {
			out["observedPrice"] = *snap.OraclePrice
		}
		out["action"] = "price sampled"
	case AppletReserveCheck:
		if snap != nil && snap.ReserveRatio != nil {
			out["reserveRatio"] = *snap.ReserveRatio
		}
		if snap != nil {
			out["protocolStatus"] = string(snap.Status)
		}
		out["action"] = "reserve ratio checked"
	case AppletMintAction:
		out["action"] = "mint simulated"
		out["txSubmitted"] = false
	case AppletRedeemAction:
		out["action"] = "redeem simulated"
		out["txSubmitted"] = false
	case AppletNotifier:
		out["action"] = "notification dispatched"
		out["channel"] = "dashboard"
	default:
		out["action"] = "no-op"
	}

	return out
}
