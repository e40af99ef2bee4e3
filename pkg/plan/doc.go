// Package plan defines the floor-plan model consumed by the scene
// pipeline: walls given by centerline, thickness and height, door and
// window openings cut through them, and the level they stand on.
//
// A Plan is produced fresh by every DSL evaluation and is not mutated
// after it is handed to the pipeline.
package plan
