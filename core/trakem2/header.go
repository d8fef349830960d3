// Licensed to NASA JPL under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. NASA JPL licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package trakem2

// TrakEM2 refuses project files without its DTD, so the internal subset is
// carried verbatim for the element types we emit.
const xmlHeader = `<?xml version="1.0" encoding="ISO-8859-1"?>
<!DOCTYPE trakem2_anything [
    <!ELEMENT trakem2 (project,t2_layer_set,t2_display)>
    <!ELEMENT project (anything)>
    <!ATTLIST project id NMTOKEN #REQUIRED>
    <!ATTLIST project unuid NMTOKEN #REQUIRED>
    <!ATTLIST project title NMTOKEN #REQUIRED>
    <!ATTLIST project preprocessor NMTOKEN #REQUIRED>
    <!ATTLIST project mipmaps_folder NMTOKEN #REQUIRED>
    <!ATTLIST project storage_folder NMTOKEN #REQUIRED>
    <!ELEMENT anything EMPTY>
    <!ATTLIST anything id NMTOKEN #REQUIRED>
    <!ATTLIST anything expanded NMTOKEN #REQUIRED>
    <!ELEMENT t2_layer (t2_patch,t2_label,t2_layer_set,t2_profile)>
    <!ATTLIST t2_layer oid NMTOKEN #REQUIRED>
    <!ATTLIST t2_layer thickness NMTOKEN #REQUIRED>
    <!ATTLIST t2_layer z NMTOKEN #REQUIRED>
    <!ELEMENT t2_layer_set (t2_prop,t2_linked_prop,t2_annot,t2_layer,t2_pipe,t2_ball,t2_area_list,t2_calibration,t2_stack,t2_treeline)>
    <!ATTLIST t2_layer_set oid NMTOKEN #REQUIRED>
    <!ATTLIST t2_layer_set layer_id NMTOKEN #REQUIRED>
    <!ATTLIST t2_layer_set transform NMTOKEN #REQUIRED>
    <!ATTLIST t2_layer_set style NMTOKEN #REQUIRED>
    <!ATTLIST t2_layer_set locked NMTOKEN #REQUIRED>
    <!ATTLIST t2_layer_set visible NMTOKEN #REQUIRED>
    <!ATTLIST t2_layer_set title NMTOKEN #REQUIRED>
    <!ATTLIST t2_layer_set links NMTOKEN #REQUIRED>
    <!ATTLIST t2_layer_set composite NMTOKEN #REQUIRED>
    <!ATTLIST t2_layer_set layer_width NMTOKEN #REQUIRED>
    <!ATTLIST t2_layer_set layer_height NMTOKEN #REQUIRED>
    <!ATTLIST t2_layer_set rot_x NMTOKEN #REQUIRED>
    <!ATTLIST t2_layer_set rot_y NMTOKEN #REQUIRED>
    <!ATTLIST t2_layer_set rot_z NMTOKEN #REQUIRED>
    <!ATTLIST t2_layer_set snapshots_quality NMTOKEN #REQUIRED>
    <!ATTLIST t2_layer_set color_cues NMTOKEN #REQUIRED>
    <!ATTLIST t2_layer_set area_color_cues NMTOKEN #REQUIRED>
    <!ATTLIST t2_layer_set avoid_color_cue_colors NMTOKEN #REQUIRED>
    <!ATTLIST t2_layer_set n_layers_color_cue NMTOKEN #REQUIRED>
    <!ATTLIST t2_layer_set paint_arrows NMTOKEN #REQUIRED>
    <!ATTLIST t2_layer_set paint_tags NMTOKEN #REQUIRED>
    <!ATTLIST t2_layer_set paint_edge_confidence_boxes NMTOKEN #REQUIRED>
    <!ATTLIST t2_layer_set preload_ahead NMTOKEN #REQUIRED>
    <!ELEMENT t2_calibration EMPTY>
    <!ATTLIST t2_calibration pixelWidth NMTOKEN #REQUIRED>
    <!ATTLIST t2_calibration pixelHeight NMTOKEN #REQUIRED>
    <!ATTLIST t2_calibration pixelDepth NMTOKEN #REQUIRED>
    <!ATTLIST t2_calibration xOrigin NMTOKEN #REQUIRED>
    <!ATTLIST t2_calibration yOrigin NMTOKEN #REQUIRED>
    <!ATTLIST t2_calibration zOrigin NMTOKEN #REQUIRED>
    <!ATTLIST t2_calibration info NMTOKEN #REQUIRED>
    <!ATTLIST t2_calibration valueUnit NMTOKEN #REQUIRED>
    <!ATTLIST t2_calibration timeUnit NMTOKEN #REQUIRED>
    <!ATTLIST t2_calibration unit NMTOKEN #REQUIRED>
    <!ELEMENT t2_filter EMPTY>
    <!ELEMENT t2_patch (t2_prop,t2_linked_prop,t2_annot,ict_transform,ict_transform_list,t2_filter)>
    <!ATTLIST t2_patch oid NMTOKEN #REQUIRED>
    <!ATTLIST t2_patch layer_id NMTOKEN #REQUIRED>
    <!ATTLIST t2_patch transform NMTOKEN #REQUIRED>
    <!ATTLIST t2_patch style NMTOKEN #REQUIRED>
    <!ATTLIST t2_patch locked NMTOKEN #REQUIRED>
    <!ATTLIST t2_patch visible NMTOKEN #REQUIRED>
    <!ATTLIST t2_patch title NMTOKEN #REQUIRED>
    <!ATTLIST t2_patch links NMTOKEN #REQUIRED>
    <!ATTLIST t2_patch composite NMTOKEN #REQUIRED>
    <!ATTLIST t2_patch file_path NMTOKEN #REQUIRED>
    <!ATTLIST t2_patch original_path NMTOKEN #REQUIRED>
    <!ATTLIST t2_patch type NMTOKEN #REQUIRED>
    <!ATTLIST t2_patch false_color NMTOKEN #REQUIRED>
    <!ATTLIST t2_patch ct NMTOKEN #REQUIRED>
    <!ATTLIST t2_patch o_width NMTOKEN #REQUIRED>
    <!ATTLIST t2_patch o_height NMTOKEN #REQUIRED>
    <!ATTLIST t2_patch min NMTOKEN #REQUIRED>
    <!ATTLIST t2_patch max NMTOKEN #REQUIRED>
    <!ATTLIST t2_patch pps NMTOKEN #REQUIRED>
    <!ATTLIST t2_patch mres NMTOKEN #REQUIRED>
    <!ATTLIST t2_patch ct_id NMTOKEN #REQUIRED>
    <!ATTLIST t2_patch alpha_mask_id NMTOKEN #REQUIRED>
    <!ELEMENT t2_display EMPTY>
    <!ATTLIST t2_display id NMTOKEN #REQUIRED>
    <!ATTLIST t2_display layer_id NMTOKEN #REQUIRED>
    <!ATTLIST t2_display x NMTOKEN #REQUIRED>
    <!ATTLIST t2_display y NMTOKEN #REQUIRED>
    <!ATTLIST t2_display magnification NMTOKEN #REQUIRED>
    <!ATTLIST t2_display srcrect_x NMTOKEN #REQUIRED>
    <!ATTLIST t2_display srcrect_y NMTOKEN #REQUIRED>
    <!ATTLIST t2_display srcrect_width NMTOKEN #REQUIRED>
    <!ATTLIST t2_display srcrect_height NMTOKEN #REQUIRED>
    <!ATTLIST t2_display scroll_step NMTOKEN #REQUIRED>
    <!ATTLIST t2_display c_alphas NMTOKEN #REQUIRED>
    <!ATTLIST t2_display c_alphas_state NMTOKEN #REQUIRED>
    <!ELEMENT ict_transform EMPTY>
    <!ATTLIST ict_transform class CDATA #REQUIRED>
    <!ATTLIST ict_transform data CDATA #REQUIRED>
    <!ELEMENT iict_transform EMPTY>
    <!ATTLIST iict_transform class CDATA #REQUIRED>
    <!ATTLIST iict_transform data CDATA #REQUIRED>
    <!ELEMENT ict_transform_list (ict_transform|iict_transform)*>
    <!ELEMENT iict_transform_list (iict_transform*)>
] >

<trakem2>
    <project
        id="0"
        title="Project"
`
