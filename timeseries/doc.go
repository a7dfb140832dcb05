// Package timeseries provides the dense batched series container shared by
// all estimation components, plus CSV loading of wide-format data.
package timeseries
