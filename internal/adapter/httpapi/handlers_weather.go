package httpapi

import (
	"fmt"
	"net/http"
	"strings"
)

func (s *Server) handleFetchMetar(w http.ResponseWriter, r *http.Request) {
	var req stationWeatherRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Stations) == 0 {
		writeError(w, http.StatusBadRequest, "stations is required")
		return
	}

	data, err := s.svc.FetchMetarData(r.Context(), req.Stations, intOr(req.Hours, 3), boolOr(req.Decoded, true))
	if err != nil {
		writeFetchError(w, err)
		return
	}
	writeData(w, data, fmt.Sprintf("METAR data fetched for %s", strings.Join(req.Stations, ",")))
}

func (s *Server) handleFetchTaf(w http.ResponseWriter, r *http.Request) {
	var req stationWeatherRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Stations) == 0 {
		writeError(w, http.StatusBadRequest, "stations is required")
		return
	}

	data, err := s.svc.FetchTafData(r.Context(), req.Stations, intOr(req.Hours, 3), boolOr(req.Decoded, true))
	if err != nil {
		writeFetchError(w, err)
		return
	}
	writeData(w, data, fmt.Sprintf("TAF data fetched for %s", strings.Join(req.Stations, ",")))
}

func (s *Server) handleFetchPirep(w http.ResponseWriter, r *http.Request) {
	var req pirepRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := s.svc.FetchPirepData(r.Context(), req.Stations, intOr(req.Age, 6), intOr(req.Distance, 100))
	if err != nil {
		writeFetchError(w, err)
		return
	}
	writeData(w, data, fmt.Sprintf("PIREP data fetched (hours: %d)", intOr(req.Hours, 6)))
}

func (s *Server) handleFetchSigmet(w http.ResponseWriter, r *http.Request) {
	var req sigmetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	level := req.Level
	if level == "" {
		level = "low"
	}

	data, err := s.svc.FetchSigmetData(r.Context(), req.Hazard, level)
	if err != nil {
		writeFetchError(w, err)
		return
	}
	writeData(w, data, fmt.Sprintf("SIGMET data fetched (level: %s)", level))
}

func (s *Server) handleFetchAirmet(w http.ResponseWriter, r *http.Request) {
	var req airmetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := s.svc.FetchAirmetData(r.Context(), req.Hazard)
	if err != nil {
		writeFetchError(w, err)
		return
	}
	hazard := req.Hazard
	if hazard == "" {
		hazard = "all"
	}
	writeData(w, data, fmt.Sprintf("AIRMET data fetched (hazard: %s)", hazard))
}

func (s *Server) handleComprehensiveWeather(w http.ResponseWriter, r *http.Request) {
	var req comprehensiveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Departure == "" || req.Arrival == "" {
		writeError(w, http.StatusBadRequest, "departure and arrival are required")
		return
	}

	data, err := s.svc.ComprehensiveWeather(r.Context(), req.Departure, req.Arrival, req.Enroute)
	if err != nil {
		writeFetchError(w, err)
		return
	}
	writeData(w, data, fmt.Sprintf("Comprehensive weather data fetched for route %s -> %s",
		req.Departure, req.Arrival))
}

func (s *Server) handleAPIStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.svc.APIStatus(r.Context())
	if err != nil {
		writeFetchError(w, err)
		return
	}
	writeData(w, status, "Aviation Weather API status checked")
}
