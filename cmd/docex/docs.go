package main

// General API documentation for swaggo. Build the server with -tags=swagger
// after generating docs.
//
// @title           docex API
// @version         1.0
// @description     HTTP API for OCR and structured attribute extraction from PDF documents.
//
// @BasePath  /
//
// @schemes http
