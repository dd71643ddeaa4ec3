package epidemic

import (
	"math"

	"go-cropwatch/geoutils"
	"go-cropwatch/types"
)

// Cluster labels during the DBSCAN pass.
const (
	labelUnvisited = -2
	labelNoise     = -1
)

// DetectClusters runs DBSCAN over a candidate set already restricted to one
// disease and one province. Points with at least cfg.MinSamples neighbors
// (themselves included) within cfg.Eps seed clusters; density-reachable
// points are absorbed; everything else is noise and dropped.
//
// The partition is deterministic for a fixed input order. Border points
// reachable from two clusters land in whichever cluster is expanded first —
// an inherent DBSCAN property, not a bug.
func DetectClusters(points []types.DiagnosisPoint, cfg Config) []types.Cluster {
	if len(points) < cfg.MinSamples {
		return nil
	}

	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = labelUnvisited
	}

	clusterID := 0
	for i := range points {
		if labels[i] != labelUnvisited {
			continue
		}

		neighbors := regionQuery(points, i, cfg.Eps)
		if len(neighbors) < cfg.MinSamples {
			labels[i] = labelNoise
			continue
		}

		// Core point: expand a new cluster from here.
		labels[i] = clusterID
		queue := append([]int(nil), neighbors...)
		for qi := 0; qi < len(queue); qi++ {
			j := queue[qi]
			if labels[j] == labelNoise {
				labels[j] = clusterID // noise absorbed as a border point
			}
			if labels[j] != labelUnvisited {
				continue
			}
			labels[j] = clusterID

			jNeighbors := regionQuery(points, j, cfg.Eps)
			if len(jNeighbors) >= cfg.MinSamples {
				queue = append(queue, jNeighbors...)
			}
		}
		clusterID++
	}

	clusters := make([]types.Cluster, 0, clusterID)
	for id := 0; id < clusterID; id++ {
		var memberIdx []int
		for i, label := range labels {
			if label == id {
				memberIdx = append(memberIdx, i)
			}
		}
		clusters = append(clusters, buildCluster(points, memberIdx, cfg))
	}

	return clusters
}

// regionQuery returns the indices of every point within eps of points[i],
// i itself included.
func regionQuery(points []types.DiagnosisPoint, i int, eps float64) []int {
	var neighbors []int
	for j := range points {
		if degreeDistance(points[i], points[j]) <= eps {
			neighbors = append(neighbors, j)
		}
	}
	return neighbors
}

// degreeDistance is flat Euclidean distance over raw coordinate degrees, the
// metric eps is expressed in. 0.05 degrees is about 5 km at the equator; the
// east-west extent shrinks with cos(latitude). Distances shown to users
// (cluster radius, merge checks) use geodesic km instead.
func degreeDistance(a, b types.DiagnosisPoint) float64 {
	dLat := a.Latitude - b.Latitude
	dLon := a.Longitude - b.Longitude
	return math.Sqrt(dLat*dLat + dLon*dLon)
}

// buildCluster aggregates the member points into a Cluster.
func buildCluster(points []types.DiagnosisPoint, memberIdx []int, cfg Config) types.Cluster {
	coords := make([][2]float64, 0, len(memberIdx))
	for _, i := range memberIdx {
		coords = append(coords, [2]float64{points[i].Latitude, points[i].Longitude})
	}

	centerLat, centerLon := geoutils.ClusterCenter(coords)

	first := points[memberIdx[0]]
	cluster := types.Cluster{
		Disease:      first.Disease,
		Province:     first.Province,
		District:     first.District,
		PointIndices: memberIdx,
		CenterLat:    centerLat,
		CenterLon:    centerLon,
		RadiusKM:     geoutils.ClusterRadius(centerLat, centerLon, coords),
		CaseCount:    len(memberIdx),
	}
	cluster.Severity = severityForCount(cluster.CaseCount, cfg)

	return cluster
}

func severityForCount(caseCount int, cfg Config) types.Severity {
	switch {
	case caseCount >= cfg.HighCaseCount:
		return types.High
	case caseCount >= cfg.MediumCaseCount:
		return types.Medium
	default:
		return types.Low
	}
}
